package sink

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var (
	ErrDestinationNotWritable = errors.New("output destination is not writable")
)

// Sink сериализует датасеты в CSV с заголовком: ровно один файл
// <dir>/<dataset>.csv на датасет за прогон.
//
// Запись идет во временный файл в том же каталоге, публикация - атомарным
// rename при Commit. Прерванный прогон не оставляет частичного файла,
// видимого downstream потребителям; повторный прогон перезаписывает файл,
// а не дописывает
type Sink struct {
	dir   string
	runID string
}

// New создает sink поверх каталога dir. Недоступный для записи каталог -
// фатальная конфигурационная ошибка
func New(dir string, runID string) (*Sink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDestinationNotWritable, err)
	}

	probe, err := os.CreateTemp(dir, ".writable-*")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDestinationNotWritable, err)
	}
	probe.Close()
	os.Remove(probe.Name())

	return &Sink{dir: dir, runID: runID}, nil
}

// Dir возвращает каталог опубликованных датасетов
func (s *Sink) Dir() string {
	return s.dir
}

// Writer потоковый писатель одного датасета
type Writer struct {
	dataset   string
	file      *os.File
	csv       *csv.Writer
	tmpPath   string
	finalPath string
	rows      int64
	committed bool
}

// NewWriter открывает писатель датасета и сразу пишет строку заголовка
func (s *Sink) NewWriter(dataset string, header []string) (*Writer, error) {
	finalPath := filepath.Join(s.dir, dataset+".csv")
	tmpPath := filepath.Join(s.dir, fmt.Sprintf(".%s-%s.csv.tmp", dataset, s.runID))

	file, err := os.Create(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDestinationNotWritable, err)
	}

	w := &Writer{
		dataset:   dataset,
		file:      file,
		csv:       csv.NewWriter(file),
		tmpPath:   tmpPath,
		finalPath: finalPath,
	}

	if err := w.csv.Write(header); err != nil {
		w.Abort()
		return nil, fmt.Errorf("failed to write header for %s: %w", dataset, err)
	}

	return w, nil
}

// Write добавляет одну строку
func (w *Writer) Write(record []string) error {
	if err := w.csv.Write(record); err != nil {
		return fmt.Errorf("failed to write row to %s: %w", w.dataset, err)
	}
	w.rows++
	return nil
}

// WriteAll добавляет батч строк
func (w *Writer) WriteAll(records [][]string) error {
	for _, record := range records {
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

// Rows возвращает количество записанных строк данных (без заголовка)
func (w *Writer) Rows() int64 {
	return w.rows
}

// Commit сбрасывает буферы, синхронизирует файл и атомарно публикует
// его под финальным именем
func (w *Writer) Commit() error {
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		w.Abort()
		return fmt.Errorf("failed to flush %s: %w", w.dataset, err)
	}
	if err := w.file.Sync(); err != nil {
		w.Abort()
		return fmt.Errorf("failed to sync %s: %w", w.dataset, err)
	}
	if err := w.file.Close(); err != nil {
		os.Remove(w.tmpPath)
		return fmt.Errorf("failed to close %s: %w", w.dataset, err)
	}
	if err := os.Rename(w.tmpPath, w.finalPath); err != nil {
		os.Remove(w.tmpPath)
		return fmt.Errorf("failed to publish %s: %w", w.dataset, err)
	}
	w.committed = true
	return nil
}

// Abort закрывает писатель и удаляет временный файл. Безопасен после
// Commit и при повторных вызовах
func (w *Writer) Abort() {
	if w.committed {
		return
	}
	w.file.Close()
	os.Remove(w.tmpPath)
}

// WriteAll пишет и публикует датасет целиком за один вызов -
// удобная форма для пулов справочных сущностей
func (s *Sink) WriteAll(dataset string, header []string, records [][]string) (int64, error) {
	w, err := s.NewWriter(dataset, header)
	if err != nil {
		return 0, err
	}
	defer w.Abort()

	if err := w.WriteAll(records); err != nil {
		return 0, err
	}
	if err := w.Commit(); err != nil {
		return 0, err
	}
	return w.Rows(), nil
}
