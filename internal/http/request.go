package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// maxBodyBytes caps request bodies; the API only carries small JSON
// documents.
const maxBodyBytes = 1 << 20

type createExpenseRequest struct {
	Title    string `json:"title" validate:"required"`
	Amount   string `json:"amount" validate:"required"`
	Category string `json:"category" validate:"required"`
}

type setIncomeRequest struct {
	Amount string `json:"amount" validate:"required"`
}

// decodeJSON parses and shape-validates the request body into dst.
// Semantic validation (amount parsing, category membership) happens in
// the domain afterwards.
func (s *Server) decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}

	if err := s.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			missing := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				missing = append(missing, strings.ToLower(fe.Field()))
			}
			return fmt.Errorf("missing required field(s): %s", strings.Join(missing, ", "))
		}
		return err
	}
	return nil
}

// sanitizeInput trims whitespace and strips control characters except
// tab, newline and carriage return.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
