package extract

import (
	"reflect"
	"strings"
	"testing"
)

func TestSplitIntoChunks_PacksParagraphsUpToLimit(t *testing.T) {
	chunks := splitIntoChunks("aaaa\n\nbbbb\n\ncccc", 12)

	expected := []string{"aaaa\n\nbbbb", "cccc"}
	if !reflect.DeepEqual(chunks, expected) {
		t.Fatalf("expected %q, got %q", expected, chunks)
	}
}

func TestSplitIntoChunks_SingleParagraphFits(t *testing.T) {
	chunks := splitIntoChunks("hello world", 8000)

	expected := []string{"hello world"}
	if !reflect.DeepEqual(chunks, expected) {
		t.Fatalf("expected %q, got %q", expected, chunks)
	}
}

func TestSplitIntoChunks_OversizedParagraphKeptWhole(t *testing.T) {
	oversized := strings.Repeat("x", 20)
	chunks := splitIntoChunks("abc\n\n"+oversized, 10)

	expected := []string{"abc", oversized}
	if !reflect.DeepEqual(chunks, expected) {
		t.Fatalf("expected %q, got %q", expected, chunks)
	}
}

func TestSplitIntoChunks_OversizedFirstParagraph(t *testing.T) {
	oversized := strings.Repeat("y", 30)
	chunks := splitIntoChunks(oversized+"\n\nshort", 10)

	expected := []string{oversized, "short"}
	if !reflect.DeepEqual(chunks, expected) {
		t.Fatalf("expected %q, got %q", expected, chunks)
	}
}

func TestSplitIntoChunks_EmptyTextYieldsNoChunks(t *testing.T) {
	if chunks := splitIntoChunks("", 8000); len(chunks) != 0 {
		t.Fatalf("expected no chunks, got %q", chunks)
	}
}
