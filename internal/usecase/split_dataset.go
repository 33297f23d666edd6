package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fiapx/fiapx-dataset-splitter/internal/domain/entity"
	"github.com/fiapx/fiapx-dataset-splitter/internal/domain/port"
	"github.com/fiapx/fiapx-dataset-splitter/internal/infra/archive"
	"github.com/fiapx/fiapx-dataset-splitter/internal/infra/metrics"
	"github.com/fiapx/fiapx-dataset-splitter/internal/partition"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var ErrArchiveInsideOutput = errors.New("archive path inside output dir")

type SplitDatasetUseCase struct {
	source   port.ExampleSource
	writer   port.SplitWriter
	archiver port.Archiver
	storage  port.DatasetStorage
	logger   *zap.Logger
}

type SplitRequest struct {
	Fractions entity.Fractions
	// Source drives sampling. Nil means an unseeded source.
	Source rand.Source
	// ArchivePath, when set, zips the output tree there after copying.
	ArchivePath string
	// UploadPrefix is the object key prefix for the upload; defaults to the run ID.
	UploadPrefix string
	// OnSplit is called with the subset counts before any file is copied.
	OnSplit func(counts map[entity.Subset]int)
}

// NewSplitDatasetUseCase wires the split stages. archiver and storage are
// optional; a nil one skips its stage.
func NewSplitDatasetUseCase(
	source port.ExampleSource,
	writer port.SplitWriter,
	archiver port.Archiver,
	storage port.DatasetStorage,
	logger *zap.Logger,
) *SplitDatasetUseCase {
	return &SplitDatasetUseCase{
		source:   source,
		writer:   writer,
		archiver: archiver,
		storage:  storage,
		logger:   logger,
	}
}

func (uc *SplitDatasetUseCase) Execute(ctx context.Context, req SplitRequest) (*entity.Summary, error) {
	tracer := otel.Tracer("usecase")
	ctx, span := tracer.Start(ctx, "SplitDatasetUseCase.Execute")
	defer span.End()

	summary, err := uc.execute(ctx, req, tracer)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		metrics.RunsTotal.WithLabelValues("failed").Inc()
		return nil, err
	}

	metrics.RunsTotal.WithLabelValues("completed").Inc()
	metrics.LastSuccessTimestamp.SetToCurrentTime()
	return summary, nil
}

func (uc *SplitDatasetUseCase) execute(ctx context.Context, req SplitRequest, tracer trace.Tracer) (*entity.Summary, error) {
	totalTimer := time.Now()

	if err := req.Fractions.Validate(); err != nil {
		return nil, err
	}
	if uc.archiver != nil && req.ArchivePath != "" {
		inside, err := archive.Contains(uc.writer.Root(), req.ArchivePath)
		if err != nil {
			return nil, fmt.Errorf("resolve archive path: %w", err)
		}
		if inside {
			return nil, fmt.Errorf("%w: %s", ErrArchiveInsideOutput, req.ArchivePath)
		}
	}

	runID := uuid.New()
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("run.id", runID.String()))
	log := uc.logger.With(zap.String("run_id", runID.String()), zap.String("save_dir", uc.writer.Root()))

	// Discover examples
	discStart := time.Now()
	ctx2, spanDisc := tracer.Start(ctx, "discover_examples")
	examples, err := uc.source.Discover(ctx2)
	spanDisc.End()
	if err != nil {
		log.Error("example discovery failed", zap.Error(err))
		return nil, fmt.Errorf("discover examples: %w", err)
	}
	metrics.StageDuration.WithLabelValues("discover").Observe(time.Since(discStart).Seconds())

	// Compute split
	src := req.Source
	if src == nil {
		src = partition.NewSource(nil)
	}
	_, spanSplit := tracer.Start(ctx, "compute_split")
	split, err := partition.Compute(len(examples), req.Fractions, src)
	spanSplit.End()
	if err != nil {
		log.Error("split computation failed", zap.Error(err))
		return nil, fmt.Errorf("compute split: %w", err)
	}

	counts := split.Counts()
	log.Info("dataset split computed",
		zap.Int("examples", len(examples)),
		zap.Int("train", counts[entity.SubsetTrain]),
		zap.Int("val", counts[entity.SubsetVal]),
		zap.Int("test", counts[entity.SubsetTest]),
	)
	if req.OnSplit != nil {
		req.OnSplit(counts)
	}

	// Materialize split
	cpStart := time.Now()
	ctx3, spanCp := tracer.Start(ctx, "materialize_split")
	bytes, err := uc.materialize(ctx3, examples, split)
	spanCp.End()
	if err != nil {
		log.Error("materialization failed", zap.Error(err))
		return nil, err
	}
	metrics.StageDuration.WithLabelValues("materialize").Observe(time.Since(cpStart).Seconds())
	for subset, c := range counts {
		metrics.ExamplesSplitTotal.WithLabelValues(string(subset)).Add(float64(c))
	}

	summary := &entity.Summary{
		RunID:    runID,
		Examples: len(examples),
		Counts:   counts,
		Files:    2 * len(examples),
		Bytes:    bytes,
	}

	// Archive output tree
	if uc.archiver != nil && req.ArchivePath != "" {
		arStart := time.Now()
		ctx4, spanAr := tracer.Start(ctx, "archive_split")
		n, err := uc.archiver.ArchiveDir(ctx4, uc.writer.Root(), req.ArchivePath)
		spanAr.End()
		if err != nil {
			log.Error("archive creation failed", zap.Error(err))
			return nil, fmt.Errorf("archive split: %w", err)
		}
		metrics.StageDuration.WithLabelValues("archive").Observe(time.Since(arStart).Seconds())
		summary.Archive = req.ArchivePath
		log.Info("split archived", zap.String("archive", req.ArchivePath), zap.Int("files", n))
	}

	// Upload output tree
	if uc.storage != nil {
		prefix := req.UploadPrefix
		if prefix == "" {
			prefix = runID.String()
		}
		upStart := time.Now()
		ctx5, spanUp := tracer.Start(ctx, "upload_split")
		n, err := uc.storage.UploadTree(ctx5, uc.writer.Root(), prefix)
		spanUp.End()
		if err != nil {
			log.Error("upload failed", zap.Error(err))
			return nil, fmt.Errorf("upload split: %w", err)
		}
		metrics.StageDuration.WithLabelValues("upload").Observe(time.Since(upStart).Seconds())
		summary.Uploaded = n
	}

	metrics.StageDuration.WithLabelValues("total").Observe(time.Since(totalTimer).Seconds())
	log.Info("dataset split completed",
		zap.Int("files", summary.Files),
		zap.String("size", humanize.Bytes(uint64(summary.Bytes))),
		zap.Duration("elapsed", time.Since(totalTimer)),
	)
	return summary, nil
}

// materialize creates the output tree and copies examples in index order.
// The first failure aborts the run.
func (uc *SplitDatasetUseCase) materialize(ctx context.Context, examples []entity.Example, split entity.Split) (int64, error) {
	if err := uc.writer.Prepare(ctx); err != nil {
		return 0, fmt.Errorf("prepare output: %w", err)
	}

	var total int64
	for i, subset := range split.Assignments() {
		n, err := uc.writer.Copy(ctx, examples[i], subset)
		if err != nil {
			return total, fmt.Errorf("materialize example %d: %w", i, err)
		}
		total += n
		metrics.FilesCopiedTotal.WithLabelValues("image").Inc()
		metrics.FilesCopiedTotal.WithLabelValues("annotation").Inc()
	}
	metrics.BytesCopiedTotal.Add(float64(total))
	return total, nil
}
