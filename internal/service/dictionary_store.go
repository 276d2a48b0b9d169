package service

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/MimeLyc/dreamsense/internal/config"
	"github.com/MimeLyc/dreamsense/internal/dream"
	"github.com/MimeLyc/dreamsense/pkg/file"
	"github.com/MimeLyc/dreamsense/pkg/icron"
	"github.com/MimeLyc/dreamsense/pkg/log"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/singleflight"
)

type cronScheduler interface {
	AddFunc(spec string, cmd func()) (cron.EntryID, error)
}

// DictionaryStore serves the current dictionary snapshot. Snapshots are never
// mutated; a reload swaps in a new one.
type DictionaryStore struct {
	cfg   config.DictionaryConfig
	cron  cronScheduler
	group singleflight.Group

	current atomic.Pointer[dream.Dictionary]
	// written only at construction and inside group.Do
	loaded file.Fingerprint
}

// NewDictionaryStore loads the configured dictionary file, or the built-in
// dictionary when no file is set.
func NewDictionaryStore(cfg config.DictionaryConfig, scheduler cronScheduler) (*DictionaryStore, error) {
	s := &DictionaryStore{
		cfg:  cfg,
		cron: scheduler,
	}

	if cfg.File == "" {
		s.current.Store(dream.Default())
		return s, nil
	}

	fp, err := file.Stat(cfg.File)
	if err != nil {
		return nil, WrapError(err, ErrConfig, "load dictionary").WithContext("file", cfg.File)
	}
	dict, err := dream.Load(cfg.File, cfg.Language)
	if err != nil {
		return nil, WrapError(err, ErrConfig, "load dictionary").WithContext("file", cfg.File)
	}
	s.current.Store(dict)
	s.loaded = fp
	log.Info("Loaded %d dream symbols from %s", dict.Len(), cfg.File)
	return s, nil
}

func (s *DictionaryStore) Current() *dream.Dictionary {
	return s.current.Load()
}

// Reload re-reads the dictionary file when it changed on disk. On error the
// previous snapshot stays in place. Concurrent calls share one read.
func (s *DictionaryStore) Reload(ctx context.Context) error {
	if s.cfg.File == "" {
		return nil
	}
	_, err, _ := s.group.Do("reload", func() (any, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		changed, fp, err := file.ChangedSince(s.cfg.File, s.loaded)
		if err != nil {
			return nil, WrapError(err, ErrConfig, "reload dictionary").WithContext("file", s.cfg.File)
		}
		if !changed {
			log.Debug("Dictionary %s unchanged, skipping reload", s.cfg.File)
			return nil, nil
		}
		dict, err := dream.Load(s.cfg.File, s.cfg.Language)
		if err != nil {
			return nil, WrapError(err, ErrConfig, "reload dictionary").WithContext("file", s.cfg.File)
		}
		s.current.Store(dict)
		s.loaded = fp
		log.Info("Reloaded %d dream symbols from %s", dict.Len(), s.cfg.File)
		return nil, nil
	})
	return err
}

// Schedule registers the periodic reload. Without a file or a cron expression
// nothing is scheduled.
func (s *DictionaryStore) Schedule(ctx context.Context) error {
	if s.cfg.File == "" || s.cfg.ReloadCron == "" || s.cron == nil {
		return nil
	}
	_, err := s.cron.AddFunc(s.cfg.ReloadCron, func() {
		if err := s.Reload(ctx); err != nil {
			log.Error("Dictionary reload failed: %v", err)
		}
	})
	if err != nil {
		return WrapError(err, ErrConfig, "schedule dictionary reload").WithContext("cron", s.cfg.ReloadCron)
	}
	if info, err := icron.GetTriggerInfo(s.cfg.ReloadCron, time.Now()); err == nil {
		log.Info("Dictionary reload scheduled: %s, next at %s (in %s)",
			s.cfg.ReloadCron, info.Next.Format(time.RFC3339), info.TimeUntilNext.Round(time.Second))
	} else {
		log.Info("Dictionary reload scheduled: %s", s.cfg.ReloadCron)
	}
	return nil
}
