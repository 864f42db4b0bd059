package api

import (
	"subcue/internal/srt"
	"subcue/internal/store"
)

// FromDocument converts a cached document to its API representation.
func FromDocument(doc *store.Document) Track {
	if doc == nil {
		return Track{}
	}
	dto := Track{
		ID:       doc.ID,
		Source:   doc.Source,
		Title:    doc.Title,
		Language: doc.Language,
		Checksum: doc.Checksum,
		Size:     doc.Size,
	}
	if !doc.CreatedAt.IsZero() {
		dto.CreatedAt = doc.CreatedAt.UTC().Format(dateTimeFormat)
	}
	if !doc.UpdatedAt.IsZero() {
		dto.UpdatedAt = doc.UpdatedAt.UTC().Format(dateTimeFormat)
	}
	return dto
}

// FromDocuments converts a slice of cached documents into API DTOs.
func FromDocuments(docs []store.Document) []Track {
	out := make([]Track, 0, len(docs))
	for i := range docs {
		out = append(out, FromDocument(&docs[i]))
	}
	return out
}

// Detail combines a track with the statistics of its parsed body.
func Detail(track Track, result srt.Result) TrackDetail {
	first, last := srt.Bounds(result.Cues)
	issues := srt.Validate(result, 0)
	if issues == nil {
		issues = []string{}
	}
	return TrackDetail{
		Track:   track,
		Cues:    len(result.Cues),
		Blocks:  result.Blocks,
		Dropped: result.Dropped(),
		First:   first,
		Last:    last,
		Issues:  issues,
	}
}

// FromResult converts a parse result for transport. mediaSeconds enables the
// runtime check when positive.
func FromResult(result srt.Result, mediaSeconds float64) ParseResponse {
	issues := srt.Validate(result, mediaSeconds)
	if issues == nil {
		issues = []string{}
	}
	return ParseResponse{
		Cues:        result.Cues,
		Diagnostics: result.Diagnostics,
		Blocks:      result.Blocks,
		Issues:      issues,
	}
}
