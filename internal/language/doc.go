// Package language normalizes subtitle language codes and infers them from
// source names such as "episode.vi.srt" or "Lesson 3 Vietnamese.srt".
//
// Codes are returned as ISO 639-1 where one exists. Parsing goes through
// golang.org/x/text/language so three-letter codes and BCP 47 tags
// ("vie", "pt-BR") resolve to the same base language.
package language
