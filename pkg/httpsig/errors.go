package httpsig

import (
	"errors"
	"strings"
	"time"

	"github.com/forcebit/message-signatures/pkg/parser"
	"github.com/forcebit/message-signatures/pkg/sigerr"
)

// classifyBuildError maps a pkg/base.Build/BuildWithOptions error to a
// sigerr sub-code. base.Build itself returns plain wrapped errors; this is
// the package boundary where they are classified per spec.md §7.
func classifyBuildError(err error) *sigerr.Error {
	if err == nil {
		return nil
	}
	var se *sigerr.Error
	if errors.As(err, &se) {
		return se
	}
	if strings.Contains(err.Error(), "duplicate covered component") {
		return sigerr.Wrap(sigerr.DuplicateComponent, err.Error(), err)
	}
	return sigerr.Wrap(sigerr.MissingComponent, err.Error(), err)
}

// classifyParseError maps a pkg/parser/pkg/sfv error (malformed
// Signature-Input, Signature, or component identifier) to
// InvalidStructuredHeader.
func classifyParseError(err error) *sigerr.Error {
	if err == nil {
		return nil
	}
	var se *sigerr.Error
	if errors.As(err, &se) {
		return se
	}
	return sigerr.Wrap(sigerr.InvalidStructuredHeader, err.Error(), err)
}

// validateClock applies the checks of parser.SignatureParamsValidationOptions
// again here, field by field, so that failures can be classified
// into the distinct FutureSignature/TooOld/Expired/MissingParameter
// sub-codes spec.md §7 requires, rather than
// parser.ValidateSignatureParams' single generic error.
func validateClock(params parser.SignatureParams, opts parser.SignatureParamsValidationOptions) *sigerr.Error {
	if opts.CreatedNotNewerThan < 0 || opts.CreatedNotOlderThan < 0 {
		return sigerr.New(sigerr.MissingParameter, "clock validation window must be >= 0")
	}

	needsCreated := opts.RequireCreated || opts.CreatedNotNewerThan > 0 || opts.CreatedNotOlderThan > 0
	needsNow := opts.CreatedNotNewerThan > 0 || opts.CreatedNotOlderThan > 0 || opts.RejectExpired

	var now time.Time
	if needsNow {
		now = opts.Now
		if now.IsZero() {
			now = time.Now()
		}
	}

	var createdTime time.Time
	if params.Created == nil {
		if needsCreated {
			return sigerr.New(sigerr.MissingParameter, `missing "created" parameter`)
		}
	} else {
		createdTime = time.Unix(*params.Created, 0)
		if opts.CreatedNotNewerThan > 0 && createdTime.After(now.Add(opts.CreatedNotNewerThan)) {
			return sigerr.New(sigerr.FutureSignature, "created time is too far in the future")
		}
		if opts.CreatedNotOlderThan > 0 && createdTime.Add(opts.CreatedNotOlderThan).Before(now) {
			return sigerr.New(sigerr.TooOld, "created time is too old")
		}
	}

	if params.Expires == nil {
		if opts.RequireExpires {
			return sigerr.New(sigerr.MissingParameter, `missing "expires" parameter`)
		}
	} else {
		expiresTime := time.Unix(*params.Expires, 0)
		if opts.RejectExpired && now.After(expiresTime) {
			return sigerr.New(sigerr.Expired, "signature is expired")
		}
		if opts.ExpiresNotBeforeCreated && params.Created != nil && expiresTime.Before(createdTime) {
			return sigerr.New(sigerr.Mismatch, "expires time is before created time")
		}
	}

	return nil
}
