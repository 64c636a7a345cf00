// Package benchmark provides performance benchmarks for the storage
// layer and the stats aggregator. They run in-process against a real
// in-memory database, so the numbers reflect codec and LSM-tree cost
// rather than CLI cold-start overhead.
package benchmark

import (
	"fmt"
	"testing"
	"time"

	"github.com/stillpoint/breathe/internal/config"
	"github.com/stillpoint/breathe/internal/model"
	"github.com/stillpoint/breathe/internal/stats"
	"github.com/stillpoint/breathe/internal/storage"
)

// setupBenchDB creates an in-memory database for benchmarks.
func setupBenchDB(b *testing.B) *storage.DB {
	b.Helper()
	db, err := storage.Open(storage.Options{InMemory: true})
	if err != nil {
		b.Fatalf("failed to open in-memory database: %v", err)
	}
	b.Cleanup(func() {
		db.Close()
	})
	return db
}

// seedSessions writes n finalized session records.
func seedSessions(b *testing.B, repo *storage.SessionRepo, n int) {
	b.Helper()
	pattern, _ := model.FindPreset("box")
	base := time.Date(2026, 1, 1, 8, 0, 0, 0, time.Local)
	for i := 0; i < n; i++ {
		record := model.NewSessionRecord("user-123", pattern, 5*time.Minute, base.Add(time.Duration(i)*time.Hour))
		record.ElapsedSeconds = 300
		record.Completed = true
		record.CompletedAt = record.StartedAt.Add(5 * time.Minute)
		if err := repo.Create(record); err != nil {
			b.Fatalf("failed to seed session: %v", err)
		}
	}
}

// =============================================================================
// Storage Benchmarks
// =============================================================================

func BenchmarkSessionCreate(b *testing.B) {
	db := setupBenchDB(b)
	repo := storage.NewSessionRepo(db)
	pattern, _ := model.FindPreset("box")
	now := time.Now()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		record := model.NewSessionRecord("user-123", pattern, 5*time.Minute, now)
		record.ElapsedSeconds = 300
		record.Completed = true
		record.CompletedAt = now
		if err := repo.Create(record); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSessionList1000(b *testing.B) {
	db := setupBenchDB(b)
	repo := storage.NewSessionRepo(db)
	seedSessions(b, repo, 1000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sessions, err := repo.List()
		if err != nil {
			b.Fatal(err)
		}
		if len(sessions) != 1000 {
			b.Fatalf("expected 1000 sessions, got %d", len(sessions))
		}
	}
}

func BenchmarkSessionListFiltered(b *testing.B) {
	db := setupBenchDB(b)
	repo := storage.NewSessionRepo(db)
	seedSessions(b, repo, 1000)
	filter := storage.SessionFilter{CompletedOnly: true, Limit: 20}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := repo.ListFiltered(filter); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkPatternResolve(b *testing.B) {
	db := setupBenchDB(b)
	repo := storage.NewPatternRepo(db)
	for i := 0; i < 20; i++ {
		if err := repo.Create(model.NewPattern(fmt.Sprintf("custom-%d", i), 4, 4, 4, "user-123")); err != nil {
			b.Fatal(err)
		}
	}

	b.Run("preset", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			if _, err := repo.Resolve("box"); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("custom", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			if _, err := repo.Resolve("custom-10"); err != nil {
				b.Fatal(err)
			}
		}
	})
}

// =============================================================================
// Aggregator Benchmarks
// =============================================================================

func BenchmarkAccumulate(b *testing.B) {
	pattern, _ := model.FindPreset("box")
	now := time.Now()
	record := model.NewSessionRecord("user-123", pattern, 5*time.Minute, now)
	record.ElapsedSeconds = 300
	s := model.NewUserStats("user-123")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		stats.Accumulate(s, record, now)
	}
}

func BenchmarkAggregatorApply(b *testing.B) {
	db := setupBenchDB(b)
	statsRepo := storage.NewStatsRepo(db)
	achievementRepo := storage.NewAchievementRepo(db)
	agg := stats.New(statsRepo, achievementRepo, config.StatsConfig{MaxUpdateAttempts: 3})

	pattern, _ := model.FindPreset("box")
	now := time.Now()
	record := model.NewSessionRecord("user-123", pattern, 5*time.Minute, now)
	record.ElapsedSeconds = 300
	record.Completed = true
	record.CompletedAt = now

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := agg.Apply(record, now); err != nil {
			b.Fatal(err)
		}
	}
}
