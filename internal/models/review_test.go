package models

import (
	"testing"
)

func TestAverageRating(t *testing.T) {
	reviews := []Review{{Rating: 1}, {Rating: 2}, {Rating: 3}, {Rating: 4}, {Rating: 5}}
	avg, ok := AverageRating(reviews)
	if !ok {
		t.Fatal("Expected ok for a non-empty slice")
	}
	if avg != 3.0 {
		t.Errorf("Expected average 3.0, got %v", avg)
	}
}

func TestAverageRatingSingle(t *testing.T) {
	avg, ok := AverageRating([]Review{{Rating: 4}})
	if !ok || avg != 4.0 {
		t.Errorf("Expected (4.0, true), got (%v, %v)", avg, ok)
	}
}

func TestAverageRatingEmpty(t *testing.T) {
	if _, ok := AverageRating(nil); ok {
		t.Error("Expected ok=false for no reviews")
	}
}

func TestFormatRating(t *testing.T) {
	if got := FormatRating(0, false); got != "-" {
		t.Errorf("Unrated should render as '-', got %q", got)
	}
	if got := FormatRating(3.5, true); got != "3.5" {
		t.Errorf("Expected 3.5, got %q", got)
	}
	if got := FormatRating(4, true); got != "4.0" {
		t.Errorf("Expected 4.0, got %q", got)
	}
	avg, ok := AverageRating([]Review{{Rating: 3}, {Rating: 4}})
	if got := FormatRating(avg, ok); got != "3.5" {
		t.Errorf("Expected 3.5 for [3 4], got %q", got)
	}
}

func TestRecipeImageURL(t *testing.T) {
	r := Recipe{}
	if got := r.ImageURL(); got != "/media/images/default.jpg" {
		t.Errorf("Expected default image path, got %q", got)
	}
	r.Image = "images/abc.png"
	if got := r.ImageURL(); got != "/media/images/abc.png" {
		t.Errorf("Expected uploaded image path, got %q", got)
	}
}
