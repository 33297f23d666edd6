package main

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fiapx/fiapx-dataset-splitter/internal/domain/entity"
	"github.com/fiapx/fiapx-dataset-splitter/internal/domain/port"
	"github.com/fiapx/fiapx-dataset-splitter/internal/infra/archive"
	"github.com/fiapx/fiapx-dataset-splitter/internal/infra/config"
	"github.com/fiapx/fiapx-dataset-splitter/internal/infra/localfs"
	"github.com/fiapx/fiapx-dataset-splitter/internal/infra/metrics"
	miniostorage "github.com/fiapx/fiapx-dataset-splitter/internal/infra/minio"
	"github.com/fiapx/fiapx-dataset-splitter/internal/infra/tracing"
	"github.com/fiapx/fiapx-dataset-splitter/internal/partition"
	"github.com/fiapx/fiapx-dataset-splitter/internal/usecase"
	"github.com/fiapx/fiapx-dataset-splitter/pkg/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRootCmd(cfg *config.Config) *cobra.Command {
	var (
		txtDir string
		seed   uint64
	)

	cmd := &cobra.Command{
		Use:   "splitter",
		Short: "Split image/annotation pairs into train, val and test sets",
		Long: `splitter copies every annotation in --annotation-dir and its same-stem image
from --image-dir into <save-dir>/{images,labels}/{train,val,test}.

Files already in the output tree are overwritten. Pass --seed to make the split
reproducible.`,
		Example:      "  splitter --image-dir my_datasets/color_rings/imgs --annotation-dir my_datasets/color_rings/txts --save-dir my_datasets/color_rings/train_data",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("txt-dir") && !cmd.Flags().Changed("annotation-dir") {
				cfg.AnnotationDir = txtDir
			}
			if cmd.Flags().Changed("seed") {
				cfg.Seed = &seed
			}
			return run(cmd, cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.ImageDir, "image-dir", cfg.ImageDir, "image path dir")
	flags.StringVar(&cfg.AnnotationDir, "annotation-dir", cfg.AnnotationDir, "annotation (txt) path dir")
	flags.StringVar(&txtDir, "txt-dir", cfg.AnnotationDir, "annotation (txt) path dir")
	flags.StringVar(&cfg.SaveDir, "save-dir", cfg.SaveDir, "save dir")
	flags.Float64Var(&cfg.TrainFraction, "train-fraction", cfg.TrainFraction, "fraction of examples for train")
	flags.Float64Var(&cfg.ValFraction, "val-fraction", cfg.ValFraction, "fraction of examples for val; test gets the rest")
	flags.Uint64Var(&seed, "seed", 0, "random seed; unset means a different split every run")
	flags.StringSliceVar(&cfg.ImageExts, "image-ext", cfg.ImageExts, "image extensions in order of preference")
	flags.StringVar(&cfg.Archive, "archive", cfg.Archive, "also write the output tree to this zip file")
	flags.StringVar(&cfg.MinIODatasetBucket, "upload-bucket", cfg.MinIODatasetBucket, "also upload the output tree to this MinIO bucket")
	flags.StringVar(&cfg.MinIODatasetPrefix, "upload-prefix", cfg.MinIODatasetPrefix, "object key prefix for the upload (default: run id)")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	_ = flags.MarkDeprecated("txt-dir", "use --annotation-dir instead")

	return cmd
}

func run(cmd *cobra.Command, cfg *config.Config) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	// Tracing (non-fatal if the collector is unavailable)
	shutdownTracing, err := tracing.Setup(ctx, cfg.JaegerEndpoint)
	if err != nil {
		log.Warn("tracing init failed, continuing without tracing", zap.Error(err))
	} else {
		defer shutdownTracing(context.WithoutCancel(ctx))
	}

	var storage port.DatasetStorage
	if cfg.MinIODatasetBucket != "" {
		s, err := miniostorage.NewStorage(miniostorage.StorageConfig{
			Endpoint:  cfg.MinIOEndpoint,
			AccessKey: cfg.MinIOAccessKey,
			SecretKey: cfg.MinIOSecretKey,
			UseSSL:    cfg.MinIOUseSSL,
			Bucket:    cfg.MinIODatasetBucket,
		}, log)
		if err != nil {
			return err
		}
		if err := s.EnsureBucket(ctx); err != nil {
			return fmt.Errorf("ensure minio bucket: %w", err)
		}
		storage = s
	}

	uc := usecase.NewSplitDatasetUseCase(
		localfs.NewSource(cfg.ImageDir, cfg.AnnotationDir, cfg.ImageExts, log),
		localfs.NewWriter(cfg.SaveDir),
		archive.NewZipCreator(),
		storage,
		log,
	)

	start := time.Now()
	summary, runErr := uc.Execute(ctx, usecase.SplitRequest{
		Fractions:    entity.NewFractions(cfg.TrainFraction, cfg.ValFraction),
		Source:       partition.NewSource(cfg.Seed),
		ArchivePath:  cfg.Archive,
		UploadPrefix: cfg.MinIODatasetPrefix,
		OnSplit: func(counts map[entity.Subset]int) {
			fmt.Fprintf(out, "train: %d, val: %d, test: %d\n",
				counts[entity.SubsetTrain], counts[entity.SubsetVal], counts[entity.SubsetTest])
		},
	})

	if err := metrics.Export(cfg.MetricsTextfile, cfg.MetricsPushgateway, "fiapx_dataset_splitter", log); err != nil {
		log.Warn("metrics export failed", zap.Error(err))
	}

	if runErr != nil {
		return runErr
	}

	fmt.Fprintf(out, "copied %d files (%s) to %s in %s\n",
		summary.Files, humanize.Bytes(uint64(summary.Bytes)), cfg.SaveDir,
		time.Since(start).Round(time.Millisecond))
	return nil
}
