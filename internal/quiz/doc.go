// Package quiz builds word-ordering dictation exercises from caption cues.
package quiz
