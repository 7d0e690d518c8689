package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"lensinspect/internal/domain/entity"
)

type Config struct {
	TelegramToken string
	Pipeline      entity.InspectionParams
}

// fileConfig — формат необязательного YAML-файла с параметрами конвейера.
// Путь задаётся переменной LENS_CONFIG.
type fileConfig struct {
	BlurSize  int `yaml:"blur_size"`
	Threshold int `yaml:"threshold"`
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		Pipeline:      entity.DefaultParams(),
	}

	if path := os.Getenv("LENS_CONFIG"); path != "" {
		if err := loadFile(path, &cfg.Pipeline); err != nil {
			return nil, err
		}
	}

	// Переменные окружения перекрывают файл.
	if v, ok, err := intEnv("LENS_BLUR_SIZE"); err != nil {
		return nil, err
	} else if ok {
		cfg.Pipeline.BlurSize = v
	}
	if v, ok, err := intEnv("LENS_THRESHOLD"); err != nil {
		return nil, err
	} else if ok {
		cfg.Pipeline.Threshold = v
	}

	return cfg, nil
}

func loadFile(path string, params *entity.InspectionParams) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	if fc.BlurSize > 0 {
		params.BlurSize = fc.BlurSize
	}
	if fc.Threshold > 0 {
		params.Threshold = fc.Threshold
	}
	return nil
}

func intEnv(name string) (int, bool, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return 0, false, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", name, err)
	}
	return v, true, nil
}
