/**
 * @description
 * This file handles configuration management for the labstock backend.
 * It uses the 'viper' library to load configuration from environment
 * variables, providing a centralized and consistent way to manage settings.
 */
package config

import (
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	ServerPort            string `mapstructure:"SERVER_PORT"`
	DatabaseURL           string `mapstructure:"DATABASE_URL"`
	JWTSecret             string `mapstructure:"JWT_SECRET"`
	TokenTTLHours         int    `mapstructure:"TOKEN_TTL_HOURS"`
	RabbitMQURL           string `mapstructure:"RABBITMQ_URL"`
	SubscriptionSweepCron string `mapstructure:"SUBSCRIPTION_SWEEP_CRON"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (Config, error) {
	viper.SetDefault("SERVER_PORT", "5205")
	viper.SetDefault("TOKEN_TTL_HOURS", 24)
	viper.SetDefault("SUBSCRIPTION_SWEEP_CRON", "@hourly")
	viper.AutomaticEnv()

	// Bind environment variables explicitly to ensure they appear in Unmarshal
	_ = viper.BindEnv("SERVER_PORT")
	_ = viper.BindEnv("DATABASE_URL")
	_ = viper.BindEnv("JWT_SECRET")
	_ = viper.BindEnv("TOKEN_TTL_HOURS")
	_ = viper.BindEnv("RABBITMQ_URL")
	_ = viper.BindEnv("SUBSCRIPTION_SWEEP_CRON")

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return Config{}, err
	}
	return config, nil
}
