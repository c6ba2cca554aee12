package config

import (
	"os"

	"gopkg.in/yaml.v2"
)

type DBConfig struct {
	DBName   string `yaml:"name"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

type ConfigSchema struct {
	Databases struct {
		Master   DBConfig   `yaml:"master"`
		Replicas []DBConfig `yaml:"replicas"`
	} `yaml:"db"`
	Redis struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	RabbitMQ struct {
		URL string `yaml:"url"`
	} `yaml:"rabbitmq"`
	Backend struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"backend"`
	Cache struct {
		// TTL кеша главной страницы в секундах
		PageTTL int `yaml:"page_ttl"`
	} `yaml:"cache"`
	Media struct {
		Dir string `yaml:"dir"`
	} `yaml:"media"`
}

var AppConfig *ConfigSchema

func LoadConfig(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	conf := &ConfigSchema{}
	if err := yaml.Unmarshal(data, conf); err != nil {
		return err
	}
	if conf.Cache.PageTTL == 0 {
		conf.Cache.PageTTL = 20
	}
	if conf.Media.Dir == "" {
		conf.Media.Dir = "media"
	}
	AppConfig = conf
	return nil
}
