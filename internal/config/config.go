package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

type Application struct {
	Host      string    `koanf:"host"`
	Server    Server    `koanf:"server"`
	Google    Google    `koanf:"google"`
	Anthropic Anthropic `koanf:"anthropic"`
	Database  Database  `koanf:"db"`
}

type Server struct {
	Addr string `koanf:"addr"`
}

type Google struct {
	ClientId     string `koanf:"clientid"`
	ClientSecret string `koanf:"clientsecret"`
}

type Anthropic struct {
	ApiKey    string `koanf:"apikey"`
	BaseUrl   string `koanf:"baseurl"`
	Model     string `koanf:"model"`
	MaxTokens int    `koanf:"maxtokens"`
}

type Database struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Application{
		Host: "http://localhost:3000",
		Server: Server{
			Addr: ":8080",
		},
		Anthropic: Anthropic{
			BaseUrl:   "https://api.anthropic.com",
			Model:     "claude-3-5-sonnet-20241022",
			MaxTokens: 1024,
		},
		Database: Database{
			Host:   "localhost",
			Port:   5432,
			User:   "khata",
			Pass:   "",
			Name:   "khata",
			Schema: "khata",
		},
	}, "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "KHATA_",
		TransformFunc: func(k, v string) (string, any) {
			// Transform the key.
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "KHATA_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}
