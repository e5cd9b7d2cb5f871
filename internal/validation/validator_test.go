// Roomatch - Roommate Compatibility Matching Service
// Copyright 2026 The Roomatch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/roomatch/roomatch

package validation

import (
	"strings"
	"testing"
)

type sampleRequest struct {
	Email       string `validate:"required,email"`
	Cleanliness int    `validate:"min=1,max=5"`
	Sleep       string `validate:"omitempty,oneof=EARLY NORMAL LATE"`
}

func TestValidateStruct_Valid(t *testing.T) {
	t.Parallel()
	req := sampleRequest{Email: "alice@uni.edu", Cleanliness: 3, Sleep: "EARLY"}
	if verr := ValidateStruct(&req); verr != nil {
		t.Errorf("ValidateStruct = %v, want nil", verr)
	}
}

func TestValidateStruct_SingleFailure(t *testing.T) {
	t.Parallel()
	req := sampleRequest{Email: "alice@uni.edu", Cleanliness: 9}

	verr := ValidateStruct(&req)
	if verr == nil {
		t.Fatal("expected a validation error")
	}
	fields := verr.Fields()
	if len(fields) != 1 || fields[0].Field != "Cleanliness" || fields[0].Tag != "max" {
		t.Errorf("fields = %+v", fields)
	}
	if !strings.Contains(verr.Error(), "at most 5") {
		t.Errorf("message = %q", verr.Error())
	}

	apiErr := verr.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" || apiErr.Details["field"] != "Cleanliness" {
		t.Errorf("apiErr = %+v", apiErr)
	}
}

func TestValidateStruct_MultipleFailures(t *testing.T) {
	t.Parallel()
	req := sampleRequest{Email: "not-an-email", Cleanliness: 0, Sleep: "SOMETIMES"}

	verr := ValidateStruct(&req)
	if verr == nil {
		t.Fatal("expected a validation error")
	}
	if len(verr.Fields()) != 3 {
		t.Fatalf("got %d field errors, want 3", len(verr.Fields()))
	}

	apiErr := verr.ToAPIError()
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok || len(fields) != 3 {
		t.Errorf("details = %+v", apiErr.Details)
	}
	if !strings.Contains(apiErr.Message, "Email") || !strings.Contains(apiErr.Message, "Sleep") {
		t.Errorf("message = %q", apiErr.Message)
	}
}
