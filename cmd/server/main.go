package main

import (
	"wayfinder/internal/app"
	"wayfinder/internal/config"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

func main() {
	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()
	_ = viper.ReadInConfig()

	cfg := config.Load()
	if err := config.InitLogger(cfg); err != nil {
		logrus.Warnf("init logger: %v", err)
	}

	if err := app.Run(cfg); err != nil {
		logrus.Fatalf("%v", err)
	}
}
