package inputswitch

import (
	"context"
	"fmt"
	"go.uber.org/zap"
	"sync"
)

// Sources is the part of Registry the Coordinator drives.
type Sources interface {
	Current() (InputSource, error)
	Lookup(id string) (InputSource, bool)
	Select(id string) error
}

// Outcome describes what handling a single focus event did.
type Outcome struct {
	Mapped   bool
	Saved    bool
	Switched bool
	Restored bool
	Failed   bool
}

// Coordinator switches input sources on focus changes. It remembers the
// source that was active before focus entered the first mapped app of a
// contiguous run of mapped apps and restores it when focus reaches an
// unmapped app.
type Coordinator struct {
	sources Sources
	store   ConfigStore
	sink    NotificationSink
	log     *zap.SugaredLogger

	lock     sync.Mutex
	savedID  string
	hasSaved bool
}

func NewCoordinator(sources Sources, store ConfigStore, sink NotificationSink, log *zap.SugaredLogger) *Coordinator {
	return &Coordinator{
		sources: sources,
		store:   store,
		sink:    sink,
		log:     log,
	}
}

// Run handles events one at a time until ctx is done or events is closed.
func (c *Coordinator) Run(ctx context.Context, events <-chan FocusEvent) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			c.HandleFocus(ev)
		}
	}
}

// Saved returns the source that will be restored on leaving mapped apps.
func (c *Coordinator) Saved() (string, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.savedID, c.hasSaved
}

func (c *Coordinator) HandleFocus(ev FocusEvent) Outcome {
	c.lock.Lock()
	defer c.lock.Unlock()

	log := c.log.With("app", ev.AppID)

	target, mapped, err := c.store.GetInputSource(ev.AppID)
	if err != nil {
		log.Warnw("could not read mapping, treating app as unmapped", "error", err)
		mapped = false
	}

	// nothing to save or restore
	if !mapped && !c.hasSaved {
		return Outcome{}
	}

	currentID := ""
	current, err := c.sources.Current()
	if err != nil {
		log.Warnw("could not get current input source", "error", err)
	} else {
		currentID = current.ID
	}

	if mapped {
		return c.enterMapped(log, ev.AppID, target, currentID)
	}
	return c.enterUnmapped(log, ev.AppID, currentID)
}

func (c *Coordinator) enterMapped(log *zap.SugaredLogger, app, target, currentID string) Outcome {
	out := Outcome{Mapped: true}

	if !c.hasSaved && currentID != "" {
		c.savedID = currentID
		c.hasSaved = true
		out.Saved = true
		log.Debugw("saved input source", "source", currentID)
	}

	if currentID == target {
		log.Debugw("input source already active", "source", target)
		return out
	}

	if err := c.sources.Select(target); err != nil {
		log.Errorw("failed to switch input source", "source", target, "error", err)
		out.Failed = true
		return out
	}

	out.Switched = true
	log.Infow("switched input source", "source", target)
	c.notify(Switched, app, target)
	return out
}

func (c *Coordinator) enterUnmapped(log *zap.SugaredLogger, app, currentID string) Outcome {
	var out Outcome
	saved := c.savedID
	// The slot is consumed even if the restore fails.
	c.savedID = ""
	c.hasSaved = false

	if currentID == saved {
		log.Debugw("saved input source already active", "source", saved)
		return out
	}

	if err := c.sources.Select(saved); err != nil {
		log.Errorw("failed to restore input source", "source", saved, "error", err)
		out.Failed = true
		return out
	}

	out.Restored = true
	log.Infow("restored input source", "source", saved)
	c.notify(Restored, app, saved)
	return out
}

func (c *Coordinator) notify(kind NotificationKind, app, sourceID string) {
	if c.sink == nil {
		return
	}

	enabled, err := c.store.NotificationsEnabled()
	if err != nil {
		c.log.Warnw("could not read notification setting", "error", err)
		return
	}
	if !enabled {
		return
	}

	source, ok := c.sources.Lookup(sourceID)
	if !ok {
		c.log.Debugw("no such input source, skipping notification", "source", sourceID)
		return
	}

	c.sink.NotifySwitch(Notification{
		Kind:    kind,
		AppID:   app,
		Source:  source,
		Message: Message(kind, source),
	})
}

func Message(kind NotificationKind, source InputSource) string {
	switch kind {
	case Restored:
		return fmt.Sprintf("Restored to %s", source.Name)
	default:
		return fmt.Sprintf("Switched to %s", source.Name)
	}
}
