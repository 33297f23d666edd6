package config

import (
	"github.com/caarlos0/env/v11"
)

type Config struct {
	ImageDir      string   `env:"SPLIT_IMAGE_DIR"      envDefault:"img2"`
	AnnotationDir string   `env:"SPLIT_ANNOTATION_DIR" envDefault:"txt"`
	SaveDir       string   `env:"SPLIT_SAVE_DIR"       envDefault:"data"`
	TrainFraction float64  `env:"SPLIT_TRAIN_FRACTION" envDefault:"0.8"`
	ValFraction   float64  `env:"SPLIT_VAL_FRACTION"   envDefault:"0.1"`
	Seed          *uint64  `env:"SPLIT_SEED"`
	ImageExts     []string `env:"SPLIT_IMAGE_EXTS"     envDefault:".png,.jpg,.jpeg,.bmp,.tif,.tiff,.webp" envSeparator:","`
	Archive       string   `env:"SPLIT_ARCHIVE"`

	MinIOEndpoint      string `env:"MINIO_ENDPOINT"      envDefault:"minio:9000"`
	MinIOAccessKey     string `env:"MINIO_ACCESS_KEY"    envDefault:"minioadmin"`
	MinIOSecretKey     string `env:"MINIO_SECRET_KEY"    envDefault:"minioadmin"`
	MinIOUseSSL        bool   `env:"MINIO_USE_SSL"       envDefault:"false"`
	MinIODatasetBucket string `env:"MINIO_DATASET_BUCKET"`
	MinIODatasetPrefix string `env:"MINIO_DATASET_PREFIX"`

	MetricsTextfile    string `env:"METRICS_TEXTFILE"`
	MetricsPushgateway string `env:"METRICS_PUSHGATEWAY"`
	JaegerEndpoint     string `env:"JAEGER_ENDPOINT"`
	LogLevel           string `env:"LOG_LEVEL"          envDefault:"info"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
