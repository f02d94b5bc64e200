package scan

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"tiretrack/core/storage"
	"tiretrack/feature/notes"
	"tiretrack/feature/notes/models"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Service is the public entry point of the scan reconciliation core.
//
// Every scan event flows resolver -> counter -> aggregator (or through the
// claim validator for warranty notes); the outcome is always a structured
// ScanResult, never a propagated fault.
type Service struct {
	store      notes.Store
	client     storage.Client // nil disables the frame archive
	bucket     string
	recognizer Recognizer // nil disables image events
	logger     *zap.Logger
	cfg        Config

	resolver   *Resolver
	counter    *Counter
	aggregator *Aggregator
	validator  *ClaimValidator
	sessions   *SessionStore
}

// NewService creates a new scan service and wires its components.
func NewService(store notes.Store, client storage.Client, bucket string, recognizer Recognizer, logger *zap.Logger, cfg Config) *Service {
	cfg = cfg.withDefaults()
	return &Service{
		store:      store,
		client:     client,
		bucket:     bucket,
		recognizer: recognizer,
		logger:     logger,
		cfg:        cfg,
		resolver:   NewResolver(store, cfg),
		counter:    NewCounter(store, logger, cfg),
		aggregator: NewAggregator(store, logger),
		validator:  NewClaimValidator(store, logger),
		sessions:   NewSessionStore(store, cfg.SessionTTL),
	}
}

// HandleScan processes one scan event end to end.
func (s *Service) HandleScan(ctx context.Context, ev ScanEvent) ScanResult {
	code := ev.Code

	if code == "" && len(ev.Image) > 0 {
		recognized, ok := s.recognizeFrame(ctx, ev)
		if !ok {
			return ScanResult{
				OK:        false,
				Retryable: true,
				Message:   "no code recognized, please rescan",
			}
		}
		code = recognized
	}

	if code == "" {
		return ScanResult{OK: false, Message: "scan carried no code"}
	}

	if ev.Kind == models.KindWarranty {
		return s.HandleClaim(ctx, ev.NoteID, code)
	}

	detail, err := s.resolver.Resolve(ctx, ev.NoteID, ev.Kind, code)
	if err != nil {
		if errors.Is(err, ErrNoMatch) {
			return ScanResult{OK: false, Code: code, Message: "code not in this note"}
		}
		return s.adapterFailure("resolve failed", code, err)
	}

	progress, err := s.counter.RecordScan(ctx, detail.ID, ev.Series)
	if err != nil {
		return s.adapterFailure("scan not recorded", code, err)
	}

	if progress.AlreadyComplete {
		// Harmless duplicate: acknowledged as success so the UI does not
		// surface a failure.
		return ScanResult{
			OK:              true,
			Code:            code,
			DetailID:        detail.ID,
			NewCount:        progress.NewCount,
			TargetQuantity:  progress.Detail.TargetQuantity,
			AlreadyComplete: true,
			Message:         "item already complete",
		}
	}

	noteCompleted := false
	if progress.ItemCompleted {
		done, err := s.aggregator.OnItemCompleted(ctx, ev.NoteID)
		if err != nil {
			// The count is durable; the next scan or the reconcile sweep
			// converges the note status.
			s.logger.Warn("Note aggregation failed after item completion",
				zap.String("note_id", ev.NoteID),
				zap.Error(err),
			)
		} else {
			noteCompleted = done
		}
	}

	if sess := s.sessions.Peek(ev.NoteID); sess != nil {
		sess.Reconcile(progress.Detail)
	}

	return ScanResult{
		OK:             true,
		Code:           code,
		DetailID:       detail.ID,
		NewCount:       progress.NewCount,
		TargetQuantity: progress.Detail.TargetQuantity,
		ItemCompleted:  progress.ItemCompleted,
		NoteCompleted:  noteCompleted,
		Message:        fmt.Sprintf("scan recorded (%d/%d)", progress.NewCount, progress.Detail.TargetQuantity),
	}
}

// HandleClaim processes a warranty claim for a scanned series.
func (s *Service) HandleClaim(ctx context.Context, warrantyNoteID, series string) ScanResult {
	claim, err := s.validator.ValidateAndClaim(ctx, warrantyNoteID, series)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownSeries):
			return ScanResult{OK: false, Code: series, Message: "series not found in export records"}
		case errors.Is(err, ErrDuplicateClaim):
			return ScanResult{OK: false, Code: series, Message: "series already claimed on this note"}
		default:
			return s.adapterFailure("claim not recorded", series, err)
		}
	}

	if sess := s.sessions.Peek(warrantyNoteID); sess != nil {
		sess.Reconcile(*claim)
	}

	return ScanResult{
		OK:             true,
		Code:           series,
		DetailID:       claim.ID,
		NewCount:       claim.FulfilledQuantity,
		TargetQuantity: claim.TargetQuantity,
		ItemCompleted:  true,
		Message:        "warranty claim recorded",
	}
}

// Session returns the snapshot of the note's scan session, seeding it from
// the server when needed.
func (s *Service) Session(ctx context.Context, noteID string) (*SessionSnapshot, error) {
	sess, err := s.sessions.Get(ctx, noteID)
	if err != nil {
		return nil, err
	}
	snap := sess.Snapshot()
	return &snap, nil
}

// EndSession discards the note's scan session.
func (s *Service) EndSession(noteID string) {
	s.sessions.End(noteID)
}

// recognizeFrame runs the recognition collaborator and archives the frame.
// It returns the recognized code and whether anything usable came back.
func (s *Service) recognizeFrame(ctx context.Context, ev ScanEvent) (string, bool) {
	if s.recognizer == nil {
		s.logger.Warn("Image scan received but no recognizer configured",
			zap.String("note_id", ev.NoteID),
		)
		return "", false
	}

	code, err := s.recognizer.Recognize(ctx, ev.Image)

	// Archive regardless of recognition outcome so disputed scans can be
	// audited. Failures only log; the scan itself is unaffected.
	s.archiveFrame(ctx, ev.NoteID, ev.Image)

	if err != nil {
		s.logger.Warn("Recognition failed", zap.String("note_id", ev.NoteID), zap.Error(err))
		return "", false
	}
	return code, code != ""
}

// archiveFrame uploads the captured image to the scan archive, best effort.
func (s *Service) archiveFrame(ctx context.Context, noteID string, image []byte) {
	if s.client == nil || len(image) == 0 {
		return
	}

	objectName := fmt.Sprintf("scans/%s/%s.jpg", noteID, uuid.NewString())
	_, err := s.client.PutObject(
		ctx,
		s.bucket,
		objectName,
		bytes.NewReader(image),
		int64(len(image)),
		minio.PutObjectOptions{ContentType: "image/jpeg"},
	)
	if err != nil {
		s.logger.Warn("Failed to archive scan frame",
			zap.String("note_id", noteID),
			zap.String("object", objectName),
			zap.Error(err),
		)
	}
}

// adapterFailure wraps a store/adapter error as a retryable result. The scan
// is considered not recorded; no completion signal is raised.
func (s *Service) adapterFailure(msg, code string, err error) ScanResult {
	s.logger.Error("Scan adapter failure", zap.String("code", code), zap.Error(err))
	return ScanResult{
		OK:        false,
		Retryable: true,
		Code:      code,
		Message:   msg + ": " + err.Error(),
	}
}
