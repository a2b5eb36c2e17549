package audit

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/logging"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/models"
)

type recordingSink struct {
	mu     sync.Mutex
	events []Event
	block  chan struct{}
}

func (s *recordingSink) Log(_ context.Context, ev Event) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

func TestDispatcher_DeliversAndDrains(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(sink, logging.Nop())

	d.Dispatch(Event{SalonID: 1, Action: ActionBookingCreated})
	d.Dispatch(Event{SalonID: 1, Action: ActionAppointmentCancelled})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	d.Close(ctx)

	require.Len(t, sink.events, 2)
	assert.Equal(t, ActionBookingCreated, sink.events[0].Action)
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	sink := &recordingSink{block: make(chan struct{})}
	d := NewDispatcher(sink, logging.Nop())

	for i := 0; i < 150; i++ {
		d.Dispatch(Event{SalonID: 1, Action: ActionBookingConflict})
	}
	close(sink.block)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	d.Close(ctx)

	assert.LessOrEqual(t, len(sink.events), 101)
	assert.NotEmpty(t, sink.events)
}

func TestDispatcher_NilIsNoop(t *testing.T) {
	var d *Dispatcher
	d.Dispatch(Event{Action: ActionBookingCreated})
	d.Close(context.Background())
}

func TestLogger_PersistsMetadata(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "audit.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.AuditLog{}))

	id := uint(9)
	require.NoError(t, New(db).Log(context.Background(), Event{
		SalonID:  1,
		Action:   ActionClosureCreated,
		Entity:   "closure",
		EntityID: &id,
		Metadata: map[string]string{"kind": "arrival_order"},
	}))

	var row models.AuditLog
	require.NoError(t, db.First(&row).Error)
	assert.Equal(t, ActionClosureCreated, row.Action)
	assert.JSONEq(t, `{"kind":"arrival_order"}`, row.Metadata)
}
