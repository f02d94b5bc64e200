package cmd

import (
	"context"
	"fmt"

	"tiretrack/core/config"
	"tiretrack/core/database"
	"tiretrack/core/logger"
	"tiretrack/feature/notes"
	"tiretrack/feature/notes/models"
	"tiretrack/feature/scan"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	reconcileKind   string
	reconcileDryRun bool
)

// reconcileCmd is the parent command for all reconcile operations.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile note statuses against their line-item counts",
}

// notesReconcileCmd re-runs the completion aggregation over unfinished notes.
// A scan whose detail increment landed but whose note-status write failed
// leaves a recoverable inconsistency; this sweep converges it.
var notesReconcileCmd = &cobra.Command{
	Use:   "notes",
	Short: "Sweep unfulfilled notes and fix ones whose details are all complete",
	Long: `Sweep unfulfilled notes and re-run the completion check on each.

The aggregation is idempotent, so the sweep is always safe to run. Warranty
notes are never swept: their claims are complete at creation, so they have no
completion state to converge.

Examples:
  # Sweep every unfulfilled import and export note
  reconcile notes

  # Only import notes, report without writing
  reconcile notes --kind import --dry-run`,
	RunE: runNotesReconcile,
}

func init() {
	reconcileCmd.AddCommand(notesReconcileCmd)

	notesReconcileCmd.Flags().StringVar(&reconcileKind, "kind", "", "Limit the sweep to one note kind (import, export)")
	notesReconcileCmd.Flags().BoolVar(&reconcileDryRun, "dry-run", false, "Report what would change without writing")

	RootCmd.AddCommand(reconcileCmd)
}

// validateSweepKind parses the --kind flag. Warranty notes are rejected:
// a warranty note has no target set ahead of time, so "complete" is
// undefined for it and the sweep must not touch it.
func validateSweepKind(kind string) (models.NoteKind, error) {
	k := models.NoteKind(kind)
	if k != "" && !k.Valid() {
		return "", fmt.Errorf("unsupported note kind: %s", kind)
	}
	if k == models.KindWarranty {
		return "", fmt.Errorf("warranty notes have no completion target to reconcile")
	}
	return k, nil
}

// sweepNotes re-runs the completion check over unfulfilled notes of the given
// kind (all kinds when empty). Warranty notes are skipped for the same reason
// the scan service never aggregates claims.
func sweepNotes(ctx context.Context, store notes.Store, aggregator *scan.Aggregator, kind models.NoteKind, dryRun bool, l *zap.Logger) (checked, fulfilled int, err error) {
	pending, err := store.ListNotes(ctx, kind, true)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list notes: %w", err)
	}

	for _, note := range pending {
		if note.Kind == models.KindWarranty {
			continue
		}
		checked++

		if dryRun {
			details, err := store.ListDetails(ctx, note.ID)
			if err != nil {
				return checked, fulfilled, fmt.Errorf("failed to list details of %s: %w", note.ID, err)
			}
			done := len(details) > 0
			for _, d := range details {
				if !d.Complete() {
					done = false
					break
				}
			}
			if done {
				fulfilled++
				l.Info("Would mark note fulfilled",
					zap.String("note_id", note.ID),
					zap.String("name", note.Name),
				)
			}
			continue
		}

		done, err := aggregator.OnItemCompleted(ctx, note.ID)
		if err != nil {
			// Keep sweeping; this note is retried on the next run.
			l.Warn("Note check failed", zap.String("note_id", note.ID), zap.Error(err))
			continue
		}
		if done {
			fulfilled++
		}
	}

	return checked, fulfilled, nil
}

func runNotesReconcile(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	kind, err := validateSweepKind(reconcileKind)
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	store := notes.NewGormStore(db)
	aggregator := scan.NewAggregator(store, l)

	l.Info("Starting note reconciliation sweep", zap.String("kind", string(kind)))

	checked, fulfilled, err := sweepNotes(ctx, store, aggregator, kind, reconcileDryRun, l)
	if err != nil {
		return err
	}

	l.Info("Reconciliation sweep finished",
		zap.Int("checked", checked),
		zap.Int("fulfilled", fulfilled),
		zap.Bool("dry_run", reconcileDryRun),
	)
	return nil
}
