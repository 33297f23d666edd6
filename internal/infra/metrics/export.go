package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"go.uber.org/zap"
)

// Export writes the registry to a node-exporter textfile and/or pushes it to
// a Pushgateway. Empty targets are skipped.
func Export(textfile, pushgateway, job string, logger *zap.Logger) error {
	return export(Registry, textfile, pushgateway, job, logger)
}

func export(g prometheus.Gatherer, textfile, pushgateway, job string, logger *zap.Logger) error {
	if textfile != "" {
		if err := prometheus.WriteToTextfile(textfile, g); err != nil {
			return fmt.Errorf("write metrics textfile: %w", err)
		}
		logger.Debug("metrics written", zap.String("textfile", textfile))
	}

	if pushgateway != "" {
		if err := push.New(pushgateway, job).Gatherer(g).Push(); err != nil {
			return fmt.Errorf("push metrics: %w", err)
		}
		logger.Debug("metrics pushed", zap.String("pushgateway", pushgateway))
	}
	return nil
}
