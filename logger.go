package pixref

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards every record. Enabled reports false, so callers skip
// building attributes as well.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var silent = slog.New(nopHandler{})

// current holds the active logger; SetLogger may race with Lock.
var current atomic.Pointer[slog.Logger]

func init() {
	current.Store(silent)
}

// SetLogger sets the logger used by every CachingPixelRef.
// pixref is silent until SetLogger is called; nil restores silence.
//
// Levels:
//   - [slog.LevelDebug]: cache hits and decodes (with whether the decoded
//     buffer was published)
//   - [slog.LevelWarn]: allocation and decode failures that disable a reference
//
// Lock reports every failure through its error as well.
//
// Example:
//
//	pixref.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = silent
	}
	current.Store(l)
}

// Logger returns the logger set by SetLogger.
func Logger() *slog.Logger {
	return current.Load()
}

// refAttr groups the attributes that identify a reference.
func refAttr(r *CachingPixelRef) slog.Attr {
	return slog.Group("ref", slog.Uint64("id", r.id), slog.String("info", r.info.String()))
}

func logHit(r *CachingPixelRef, buf *Buffer) {
	l := Logger()
	if !l.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	l.Debug("pixref: cache hit", refAttr(r), slog.Int("row_bytes", buf.RowBytes()))
}

func logDecode(r *CachingPixelRef, buf *Buffer, published bool) {
	l := Logger()
	if !l.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	l.Debug("pixref: decoded", refAttr(r),
		slog.Int("bytes", buf.ByteSize()),
		slog.Int("decodes", r.decodes),
		slog.Bool("published", published))
}

func logFailure(r *CachingPixelRef, err error) {
	Logger().Warn("pixref: lock failed, reference disabled", refAttr(r), slog.Any("err", err))
}
