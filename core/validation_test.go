package core

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestValidateEntityRecord(t *testing.T) {
	orderID := uuid.New()
	itemID := uuid.New()

	tests := []struct {
		name    string
		record  *EntityRecord
		wantErr error
	}{
		{
			name: "valid record",
			record: &EntityRecord{
				Ref:    NewEntityReference("Order", orderID),
				Fields: []Field{{Name: "description", Value: "red chair"}},
				Links:  []EntityReference{NewEntityReference("LineItem", itemID)},
			},
			wantErr: nil,
		},
		{
			name: "valid record without fields",
			record: &EntityRecord{
				Ref: NewEntityReference("Order", orderID),
			},
			wantErr: nil,
		},
		{
			name:    "nil record",
			record:  nil,
			wantErr: ErrInvalidEntityRecord,
		},
		{
			name: "nil id",
			record: &EntityRecord{
				Ref: NewEntityReference("Order", uuid.Nil),
			},
			wantErr: ErrNilEntityID,
		},
		{
			name: "empty type name",
			record: &EntityRecord{
				Ref: NewEntityReference("", orderID),
			},
			wantErr: ErrInvalidEntityTypeName,
		},
		{
			name: "type name with spaces",
			record: &EntityRecord{
				Ref: NewEntityReference("Line Item", orderID),
			},
			wantErr: ErrInvalidEntityTypeName,
		},
		{
			name: "field name with marker",
			record: &EntityRecord{
				Ref:    NewEntityReference("Order", orderID),
				Fields: []Field{{Name: "^^x", Value: "v"}},
			},
			wantErr: ErrInvalidFieldName,
		},
		{
			name: "invalid link",
			record: &EntityRecord{
				Ref:   NewEntityReference("Order", orderID),
				Links: []EntityReference{NewEntityReference("LineItem", uuid.Nil)},
			},
			wantErr: ErrInvalidEntityReference,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEntityRecord(tt.record)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateEntityRecord() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateEntityRecord() error = %v, want %v", err, tt.wantErr)
			}
			if tt.record != nil && !errors.Is(err, ErrInvalidEntityRecord) {
				t.Errorf("error %v does not wrap ErrInvalidEntityRecord", err)
			}
		})
	}
}

func TestIsIdentifier(t *testing.T) {
	tests := map[string]bool{
		"Order":      true,
		"line_item2": true,
		"":           false,
		"a-b":        false,
		"a b":        false,
		"é":          false,
	}
	for input, want := range tests {
		if got := IsIdentifier(input); got != want {
			t.Errorf("IsIdentifier(%q) = %v, want %v", input, got, want)
		}
	}
}
