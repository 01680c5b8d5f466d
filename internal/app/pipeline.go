package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/okian/cvmatch/internal/domain/document"
	"github.com/okian/cvmatch/internal/domain/matching"
	"github.com/okian/cvmatch/internal/domain/model"
	"github.com/okian/cvmatch/internal/domain/report"
	"github.com/okian/cvmatch/internal/domain/skills"
	"github.com/okian/cvmatch/pkg/logger"
	"github.com/okian/cvmatch/pkg/metrics"
)

// Match scores the résumé against every posting and returns the top
// matches. A résumé without recognised skills yields an empty report.
func (s *Service) Match(ctx context.Context, filename string, data []byte) (model.MatchReport, error) {
	ext, err := checkFormat(filename)
	if err != nil {
		return model.MatchReport{}, err
	}
	c, err := s.currentCatalog()
	if err != nil {
		return model.MatchReport{}, err
	}

	key := cacheKey(data, ext, c.Fingerprint(), matching.CatalogWide)
	if rep, ok := s.reports.Get(ctx, key); ok {
		metrics.RecordCacheHit()
		return rep, nil
	}
	metrics.RecordCacheMiss()

	start := time.Now()
	user, err := s.extractSkills(ctx, ext, data, c.Vocabulary())
	if err != nil {
		return model.MatchReport{}, err
	}

	rep := report.Build(user, s.engine.ScoreAll(user, c), s.topN)
	metrics.RecordMatchLatency(string(matching.CatalogWide), float64(time.Since(start).Milliseconds()))

	s.reports.Put(ctx, key, rep)
	metrics.UpdateCacheSize(s.reports.Size() + s.targets.Size())
	return rep, nil
}

// Analyze runs the catalog-wide pipeline for the worker pool.
func (s *Service) Analyze(ctx context.Context, filename string, data []byte) (model.MatchReport, error) {
	return s.Match(ctx, filename, data)
}

// Target scores the résumé against the posting named by q.
func (s *Service) Target(ctx context.Context, filename string, data []byte, q report.Query) (model.TargetReport, error) {
	ext, err := checkFormat(filename)
	if err != nil {
		return model.TargetReport{}, err
	}
	if strings.TrimSpace(q.Title) == "" || strings.TrimSpace(q.Region) == "" || strings.TrimSpace(q.Level) == "" {
		return model.TargetReport{}, fmt.Errorf("%w: %w", ErrInvalidInput, matching.ErrInvalidQuery)
	}
	c, err := s.currentCatalog()
	if err != nil {
		return model.TargetReport{}, err
	}

	key := cacheKey(data, ext, c.Fingerprint(), matching.SingleTarget,
		skills.Normalize(q.Title), skills.Normalize(q.Region), skills.Normalize(q.Level))
	if rep, ok := s.targets.Get(ctx, key); ok {
		metrics.RecordCacheHit()
		return rep, nil
	}
	metrics.RecordCacheMiss()

	start := time.Now()
	user, err := s.extractSkills(ctx, ext, data, c.Vocabulary())
	if err != nil {
		return model.TargetReport{}, err
	}
	if user.Len() == 0 {
		metrics.RecordNoSkillsFound()
		return model.TargetReport{}, ErrNoSkillsFound
	}

	result, lookup, err := s.engine.ScoreOne(user, c, q.Title, q.Region, q.Level)
	if err != nil {
		if errors.Is(err, matching.ErrPostingNotFound) {
			metrics.RecordPostingNotFound()
		}
		return model.TargetReport{}, err
	}
	if lookup.Fallback {
		metrics.RecordFallbackLookup()
	}
	s.logger.Debug(ctx, "target resolved",
		logger.String("title", q.Title),
		logger.String("region", q.Region),
		logger.String("level", q.Level),
		logger.Bool("fallback", lookup.Fallback),
	)

	rep := report.BuildTarget(user, result, q, lookup, s.maxSuggestions)
	metrics.RecordMatchLatency(string(matching.SingleTarget), float64(time.Since(start).Milliseconds()))

	s.targets.Put(ctx, key, rep)
	metrics.UpdateCacheSize(s.reports.Size() + s.targets.Size())
	return rep, nil
}

// extractSkills converts the document to text and finds vocabulary terms.
// Unsupported formats keep document.ErrUnsupportedFormat; other failures
// are wrapped in ErrExtractionFailed.
func (s *Service) extractSkills(ctx context.Context, ext string, data []byte, vocabulary []string) (*skills.Set, error) {
	text, err := document.ExtractText(data, ext)
	if err != nil {
		reason := "malformed"
		if errors.Is(err, document.ErrUndecodableText) {
			reason = "undecodable"
		}
		metrics.RecordExtractionError(ext, reason)
		s.logger.Warn(ctx, "text extraction failed", logger.String("format", ext), logger.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}
	metrics.RecordDocumentExtracted(ext)

	user := skills.Extract(text, vocabulary)
	metrics.RecordSkillsExtracted(user.Len())
	s.logger.Debug(ctx, "skills extracted", logger.String("format", ext), logger.Strings("skills", user.Values()))
	return user, nil
}

// checkFormat rejects unsupported extensions before any work is done.
func checkFormat(filename string) (string, error) {
	ext := document.ExtensionOf(filename)
	if !document.Supported(ext) {
		metrics.RecordExtractionError("other", "unsupported")
		return "", &document.Error{Ext: ext, Err: fmt.Errorf("%w: %s", document.ErrUnsupportedFormat, ext)}
	}
	return ext, nil
}

func cacheKey(data []byte, ext, fingerprint string, policy matching.Policy, query ...string) string {
	sum := sha256.Sum256(data)
	parts := append([]string{hex.EncodeToString(sum[:]), ext, fingerprint, string(policy)}, query...)
	return strings.Join(parts, "\x1f")
}
