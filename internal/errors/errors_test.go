package errors

import (
	"fmt"
	"testing"
)

func TestJotError_Error(t *testing.T) {
	err := &JotError{
		Code:    ErrNotFound,
		Status:  404,
		Message: "note not found",
	}

	expected := "NOT_FOUND: note not found"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNewInvalidRequest(t *testing.T) {
	err := NewInvalidRequest("title is required")

	if err.Code != ErrInvalidRequest {
		t.Errorf("Code = %q, want %q", err.Code, ErrInvalidRequest)
	}
	if err.Status != 400 {
		t.Errorf("Status = %d, want 400", err.Status)
	}
	if err.Message != "title is required" {
		t.Errorf("Message = %q, want %q", err.Message, "title is required")
	}
}

func TestNewUnknownTag(t *testing.T) {
	err := NewUnknownTag("nonexistent")

	if err.Code != ErrUnknownTag {
		t.Errorf("Code = %q, want %q", err.Code, ErrUnknownTag)
	}
	if err.Status != 400 {
		t.Errorf("Status = %d, want 400", err.Status)
	}
	if err.Details["label"] != "nonexistent" {
		t.Errorf("Details[label] = %v, want %q", err.Details["label"], "nonexistent")
	}
}

func TestNewUnauthorized(t *testing.T) {
	err := NewUnauthorized()

	if err.Code != ErrUnauthorized {
		t.Errorf("Code = %q, want %q", err.Code, ErrUnauthorized)
	}
	if err.Status != 401 {
		t.Errorf("Status = %d, want 401", err.Status)
	}
}

func TestNewNotFound(t *testing.T) {
	err := NewNotFound("12")

	if err.Code != ErrNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrNotFound)
	}
	if err.Status != 404 {
		t.Errorf("Status = %d, want 404", err.Status)
	}
	if err.Details["identifier"] != "12" {
		t.Errorf("Details[identifier] = %v, want %q", err.Details["identifier"], "12")
	}
}

func TestNewInvariantViolation(t *testing.T) {
	err := NewInvariantViolation("note storage out of sync")

	if err.Code != ErrInvariantViolation {
		t.Errorf("Code = %q, want %q", err.Code, ErrInvariantViolation)
	}
	if err.Status != 500 {
		t.Errorf("Status = %d, want 500", err.Status)
	}
}

func TestNewInternal(t *testing.T) {
	err := NewInternal(fmt.Errorf("db exploded"))

	if err.Code != ErrInternal {
		t.Errorf("Code = %q, want %q", err.Code, ErrInternal)
	}
	if err.Message != "db exploded" {
		t.Errorf("Message = %q, want %q", err.Message, "db exploded")
	}

	err = NewInternal(nil)
	if err.Message != "internal error" {
		t.Errorf("Message = %q, want %q", err.Message, "internal error")
	}
}

func TestIs(t *testing.T) {
	err := NewNotFound("3")

	if !Is(err, ErrNotFound) {
		t.Error("Is should match the error's own code")
	}
	if Is(err, ErrUnauthorized) {
		t.Error("Is should not match a different code")
	}
	if Is(fmt.Errorf("plain"), ErrNotFound) {
		t.Error("Is should not match a plain error")
	}
	if Is(nil, ErrNotFound) {
		t.Error("Is should not match nil")
	}
}
