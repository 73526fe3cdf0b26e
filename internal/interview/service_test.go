package interview

import (
	"context"
	"testing"
	"time"
)

// TestValidRole は選択可能な職種の判定を検証する。
func TestValidRole(t *testing.T) {
	for _, role := range Roles {
		if !ValidRole(role) {
			t.Errorf("ValidRole(%q) = false, want true", role)
		}
	}
	if ValidRole("Astronaut") {
		t.Error("ValidRole(Astronaut) = true, want false")
	}
	if ValidRole("frontend developer") {
		t.Error("role matching must be exact, not case-insensitive")
	}
}

// TestQuestion は質問のインデックス解決と範囲外判定を検証する。
func TestQuestion(t *testing.T) {
	q, ok := Question(0)
	if !ok {
		t.Fatal("Question(0) should exist")
	}
	if q != Questions[0] {
		t.Errorf("Question(0) = %q, want %q", q, Questions[0])
	}

	if _, ok := Question(-1); ok {
		t.Error("Question(-1) should be out of range")
	}
	if _, ok := Question(len(Questions)); ok {
		t.Error("Question(len) should be out of range")
	}
}

// TestAnalyzeAnswer_VideoOn は映像ありのフィードバック内容を検証する。
func TestAnalyzeAnswer_VideoOn(t *testing.T) {
	service := &Service{delay: time.Millisecond}

	fb, err := service.AnalyzeAnswer(context.Background(), true)
	if err != nil {
		t.Fatalf("AnalyzeAnswer failed: %v", err)
	}

	if fb.SentimentScore != "Positive" {
		t.Errorf("sentimentScore = %q", fb.SentimentScore)
	}
	if fb.ConfidenceScore != "High" {
		t.Errorf("confidenceScore = %q", fb.ConfidenceScore)
	}
	if fb.BodyLanguage != "Engaged & attentive" {
		t.Errorf("bodyLanguage = %q", fb.BodyLanguage)
	}
	if fb.Transcript != "I led a migration to React and solved critical bugs..." {
		t.Errorf("transcript = %q", fb.Transcript)
	}
}

// TestAnalyzeAnswer_VideoOff は映像なしのボディランゲージ表記を検証する。
func TestAnalyzeAnswer_VideoOff(t *testing.T) {
	service := &Service{delay: time.Millisecond}

	fb, err := service.AnalyzeAnswer(context.Background(), false)
	if err != nil {
		t.Fatalf("AnalyzeAnswer failed: %v", err)
	}

	if fb.BodyLanguage != "N/A (video off)" {
		t.Errorf("bodyLanguage = %q", fb.BodyLanguage)
	}
}

// TestAnalyzeAnswer_ContextCancel はコンテキスト打ち切りで即座に
// 中断されることを検証する。
func TestAnalyzeAnswer_ContextCancel(t *testing.T) {
	service := &Service{delay: time.Minute}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	_, err := service.AnalyzeAnswer(ctx, true)
	if err == nil {
		t.Fatal("expected context error")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("cancellation took %v", elapsed)
	}
}
