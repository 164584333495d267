// Feedstage - Mock Social Feed Experiment Platform
// Copyright 2026 Feedstage Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedstage/feedstage

package validation

import (
	"strings"
	"testing"
)

type sampleRequest struct {
	Name     string `validate:"required,max=10"`
	Redirect string `validate:"omitempty,url"`
	Limit    int    `validate:"gt=0"`
}

func TestValidateStruct_Valid(t *testing.T) {
	req := sampleRequest{Name: "study", Redirect: "https://example.com", Limit: 300}
	if verr := ValidateStruct(&req); verr != nil {
		t.Fatalf("expected valid struct, got %v", verr)
	}
}

func TestValidateStruct_OptionalURLEmpty(t *testing.T) {
	req := sampleRequest{Name: "study", Limit: 1}
	if verr := ValidateStruct(&req); verr != nil {
		t.Fatalf("empty optional URL must pass, got %v", verr)
	}
}

func TestValidateStruct_SingleError(t *testing.T) {
	req := sampleRequest{Name: "", Limit: 5}
	verr := ValidateStruct(&req)
	if verr == nil {
		t.Fatal("expected validation error")
	}
	if len(verr.Errors()) != 1 {
		t.Fatalf("expected 1 error, got %d", len(verr.Errors()))
	}

	apiErr := verr.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("expected code VALIDATION_ERROR, got %s", apiErr.Code)
	}
	if apiErr.Details["field"] != "Name" {
		t.Errorf("expected field Name, got %v", apiErr.Details["field"])
	}
	if !strings.Contains(apiErr.Message, "required") {
		t.Errorf("expected 'required' in message, got %q", apiErr.Message)
	}
}

func TestValidateStruct_MultipleErrors(t *testing.T) {
	req := sampleRequest{Name: "", Redirect: "not a url", Limit: 0}
	verr := ValidateStruct(&req)
	if verr == nil {
		t.Fatal("expected validation error")
	}
	if len(verr.Errors()) != 3 {
		t.Fatalf("expected 3 errors, got %d", len(verr.Errors()))
	}

	apiErr := verr.ToAPIError()
	if _, ok := apiErr.Details["fields"]; !ok {
		t.Error("expected fields detail for multi-error response")
	}
	if !strings.Contains(apiErr.Message, "Name") || !strings.Contains(apiErr.Message, "Limit") {
		t.Errorf("expected all fields named in message, got %q", apiErr.Message)
	}
}
