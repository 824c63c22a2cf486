package processor

import (
	"context"
	"fmt"
	"time"

	"github.com/SnehaGeorge22/retail-data-pipeline/pipeline-worker-service/internal/app/pipeline-worker/service"
	"github.com/SnehaGeorge22/retail-data-pipeline/pkg/logger"

	"github.com/robfig/cron/v3"
)

// CronScheduler периодически перезагружает хранилище из каталога с датасетами.
// Страховка на случай пропущенного Kafka события: ночной прогон приводит
// витрину в соответствие с последними опубликованными файлами
type CronScheduler struct {
	cron    *cron.Cron
	loadSvc service.LoadServiceInterface
	dataDir string
}

func NewCronScheduler(loadSvc service.LoadServiceInterface, dataDir string) *CronScheduler {
	return &CronScheduler{
		cron:    cron.New(),
		loadSvc: loadSvc,
		dataDir: dataDir,
	}
}

func (s *CronScheduler) Start(ctx context.Context, schedule string) error {
	logger.Info().Str("schedule", schedule).Msg("Starting cron scheduler")

	_, err := s.cron.AddFunc(schedule, func() {
		runID := fmt.Sprintf("cron-%s", time.Now().UTC().Format("20060102-150405"))
		logger.Info().Str("run_id", runID).Msg("Cron job triggered: reloading warehouse")

		if err := s.loadSvc.LoadRun(ctx, runID, s.dataDir); err != nil {
			logger.Error().Err(err).Str("run_id", runID).Msg("Scheduled warehouse reload failed")
			return
		}
		logger.Info().Str("run_id", runID).Msg("Scheduled warehouse reload completed")
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	logger.Info().Msg("Cron scheduler started")
	return nil
}

func (s *CronScheduler) Stop() {
	logger.Info().Msg("Stopping cron scheduler")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info().Msg("Cron scheduler stopped")
}

func (s *CronScheduler) GetEntries() []cron.Entry {
	return s.cron.Entries()
}
