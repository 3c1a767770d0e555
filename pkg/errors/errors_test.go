package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed", detailsOK: true},
		{code: CodeUnauthorized, status: http.StatusUnauthorized, publicMsg: "authentication required"},
		{code: CodeForbidden, status: http.StatusForbidden, publicMsg: "access denied"},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found"},
		{code: CodeConflict, status: http.StatusConflict, publicMsg: "conflict detected", detailsOK: true},
		{code: CodeStateConflict, status: http.StatusUnprocessableEntity, publicMsg: "state transition disallowed", detailsOK: true},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true},
		{code: CodeDependency, status: http.StatusServiceUnavailable, publicMsg: "dependency unavailable", retryable: true, detailsOK: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing foo")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "missing foo" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	detail := map[string]any{"field": "foo"}
	base.WithDetails(detail)
	if base.Details() == nil {
		t.Fatalf("details should be preserved")
	}

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeConflict, cause, "ctx")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if wrapped.Code() != CodeConflict {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
}

func TestAsReturnsTypedError(t *testing.T) {
	err := New(CodeForbidden, "no entry")
	if got := As(err); got == nil || got.Code() != CodeForbidden {
		t.Fatalf("As failed to return typed error")
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should return nil")
	}
}

func TestNewfAndIsCode(t *testing.T) {
	err := Newf(CodeConflict, "line status is %s, expected %s", "paid", "awaiting_payment")
	if err.Message() != "line status is paid, expected awaiting_payment" {
		t.Fatalf("unexpected message %q", err.Message())
	}

	wrapped := fmt.Errorf("mark paid: %w", err)
	if !IsCode(wrapped, CodeConflict) {
		t.Fatalf("expected conflict code through wrap")
	}
	if IsCode(wrapped, CodeNotFound) {
		t.Fatalf("did not expect not found code")
	}
	if IsCode(stdErrors.New("plain"), CodeConflict) {
		t.Fatalf("plain errors carry no code")
	}
}

func TestDumpCollectsChain(t *testing.T) {
	err := fmt.Errorf("close order: %w", Wrap(CodeDependency, stdErrors.New("connection reset"), "update lines"))
	d := Dump(err)
	if d.Code != CodeDependency {
		t.Fatalf("expected dependency code, got %s", d.Code)
	}
	if len(d.Chain) != 3 {
		t.Fatalf("expected 3 chain entries, got %d: %v", len(d.Chain), d.Chain)
	}
	if d.Postgres != nil {
		t.Fatalf("expected no postgres info, got %+v", d.Postgres)
	}
	if _, ok := d.Fields()["pg_code"]; ok {
		t.Fatalf("pg fields should be omitted without a postgres error")
	}
}

func TestDumpLiftsPostgresErrors(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "group_orders_slug_key", TableName: "group_orders"}
	d := Dump(Wrap(CodeConflict, fmt.Errorf("insert: %w", pgErr), "slug taken"))
	if d.Postgres == nil || d.Postgres.Constraint != "group_orders_slug_key" {
		t.Fatalf("expected constraint from pgx error, got %+v", d.Postgres)
	}
	if d.Fields()["pg_code"] != "23505" {
		t.Fatalf("expected pg_code field, got %v", d.Fields()["pg_code"])
	}

	pqDump := Dump(&pq.Error{Code: "23514", Constraint: "order_lines_qty_positive"})
	if pqDump.Postgres == nil || pqDump.Postgres.Code != "23514" {
		t.Fatalf("expected lib/pq error to be lifted, got %+v", pqDump.Postgres)
	}
}

func TestPublicMessage(t *testing.T) {
	if got := New(CodeStateConflict, "order is closed").PublicMessage(); got != "order is closed" {
		t.Fatalf("state conflict should expose its message, got %q", got)
	}
	if got := Wrap(CodeInternal, stdErrors.New("pq: password"), "query failed").PublicMessage(); got != "internal server error" {
		t.Fatalf("internal errors must hide their message, got %q", got)
	}
	if got := New(CodeNotFound, "").PublicMessage(); got != "resource not found" {
		t.Fatalf("empty message should fall back, got %q", got)
	}
	if CodeRateLimit.HTTPStatus() != http.StatusTooManyRequests {
		t.Fatalf("unexpected rate limit status")
	}
}

func TestWrapIncludesCauseInErrorString(t *testing.T) {
	err := Wrap(CodeDependency, stdErrors.New("dial tcp: refused"), "load order")
	if err.Error() != "DEPENDENCY_ERROR: load order: dial tcp: refused" {
		t.Fatalf("unexpected error string %q", err.Error())
	}
	if New(CodeNotFound, "missing").Error() != "NOT_FOUND: missing" {
		t.Fatalf("unexpected error string %q", New(CodeNotFound, "missing").Error())
	}
}
