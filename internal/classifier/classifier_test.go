package classifier

import (
	"errors"
	"testing"

	"github.com/famomatic/bilidown/internal/types"
)

func TestClassify_KnownShapes(t *testing.T) {
	tests := []struct {
		in   string
		want types.Category
	}{
		{in: "https://www.bilibili.com/video/BV1GJ411x7h7", want: types.CategoryVideo},
		{in: "https://www.bilibili.com/video/BV1GJ411x7h7/?p=2&spm_id_from=333", want: types.CategoryVideo},
		{in: "https://www.bilibili.com/video/av170001", want: types.CategoryVideo},
		{in: "https://www.bilibili.com/bangumi/play/ep374717", want: types.CategoryBangumi},
		{in: "https://www.bilibili.com/bangumi/play/ss33802", want: types.CategoryBangumi},
		{in: "https://www.bilibili.com/cheese/play/ep1234", want: types.CategoryCheese},
		{in: "https://www.bilibili.com/cheese/play/ss556", want: types.CategoryCheese},
		{in: "  https://m.bilibili.com/video/av2  ", want: types.CategoryVideo},
	}
	for _, tt := range tests {
		got, err := Classify(tt.in)
		if err != nil {
			t.Fatalf("Classify(%q) error=%v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("Classify(%q)=%q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClassify_Unrecognized(t *testing.T) {
	inputs := []string{
		"",
		"https://www.bilibili.com/",
		"https://www.bilibili.com/video/BV2GJ411x7h7",
		"https://www.bilibili.com/video/BV1short",
		"https://www.bilibili.com/play/ep123",
		"https://space.bilibili.com/12345",
		"https://www.bilibili.com/video/avabc",
	}
	for _, in := range inputs {
		got, err := Classify(in)
		if !errors.Is(err, types.ErrUnrecognizedURL) {
			t.Fatalf("Classify(%q) error=%v, want ErrUnrecognizedURL", in, err)
		}
		if got != "" {
			t.Fatalf("Classify(%q)=%q, want empty", in, got)
		}
	}
}

func TestExtractors(t *testing.T) {
	if got, ok := ExtractBVID("https://www.bilibili.com/video/BV1xx000000x"); !ok || got != "BV1xx000000x" {
		t.Fatalf("ExtractBVID()=%q,%v", got, ok)
	}
	if got, ok := ExtractAID("https://www.bilibili.com/video/av42"); !ok || got != 42 {
		t.Fatalf("ExtractAID()=%d,%v", got, ok)
	}
	if got, ok := ExtractEPID("https://www.bilibili.com/cheese/play/ep77"); !ok || got != 77 {
		t.Fatalf("ExtractEPID()=%d,%v", got, ok)
	}
	if got, ok := ExtractSSID("https://www.bilibili.com/bangumi/play/ss9"); !ok || got != 9 {
		t.Fatalf("ExtractSSID()=%d,%v", got, ok)
	}
	if _, ok := ExtractAID("https://www.bilibili.com/video/BV1xx000000x"); ok {
		t.Fatalf("ExtractAID() should report absence for a BV url")
	}
	if _, ok := ExtractSSID("https://www.bilibili.com/bangumi/play/ep1"); ok {
		t.Fatalf("ExtractSSID() should report absence for an ep url")
	}
}

func TestIdentify(t *testing.T) {
	got := Identify("https://www.bilibili.com/bangumi/play/ep374717")
	want := types.Identifier{EPID: 374717}
	if got != want {
		t.Fatalf("Identify()=%+v, want %+v", got, want)
	}
}
