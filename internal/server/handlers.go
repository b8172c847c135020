package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/claimdesk/claimdesk/internal/claim"
	"github.com/claimdesk/claimdesk/internal/identity"
	"github.com/claimdesk/claimdesk/internal/payment"
	"github.com/claimdesk/claimdesk/internal/render"
	"github.com/claimdesk/claimdesk/internal/store"
)

// CreateClaim files a new claim. The claim number and status are assigned by
// the store; any client-supplied values for them are discarded.
func (s *Server) CreateClaim(c echo.Context) error {
	var rec claim.Record
	if err := c.Bind(&rec); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid claim payload")
	}

	rec.ID = uuid.Nil
	rec.ClaimNumber = ""
	rec.Status = ""
	rec.Notes = nil

	if rec.ClaimantEmail == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "claimant email is required")
	}

	if err := s.claims.Create(c.Request().Context(), &rec); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create claim")
	}
	return c.JSON(http.StatusCreated, map[string]any{"claim": rec})
}

// ListClaims returns claims newest first.
func (s *Server) ListClaims(c echo.Context) error {
	limit, offset := paging(c)
	items, total, err := s.claims.List(c.Request().Context(), limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list claims")
	}
	return c.JSON(http.StatusOK, map[string]any{"claims": items, "total": total})
}

// GetClaim returns one claim.
func (s *Server) GetClaim(c echo.Context) error {
	rec, err := s.lookupClaim(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"claim": rec})
}

// GetClaimDocument renders the claim PDF and returns it as a download.
func (s *Server) GetClaimDocument(c echo.Context) error {
	rec, err := s.lookupClaim(c)
	if err != nil {
		return err
	}

	data, err := s.renderer.Render(rec)
	if err != nil {
		s.logger.Error().Err(err).Str("claim", rec.ClaimNumber).Msg("document render failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to generate document")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+render.Filename(rec)+`"`)
	return c.Blob(http.StatusOK, "application/pdf", data)
}

// UpdateClaim overwrites the record wholesale (admin edit path). Notes and
// server-assigned identity are preserved by the store.
func (s *Server) UpdateClaim(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid claim id")
	}

	var rec claim.Record
	if err := c.Bind(&rec); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid claim payload")
	}
	rec.ID = id

	if rec.Status != "" && !rec.Status.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid status")
	}
	if rec.Priority != "" && !rec.Priority.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid priority")
	}

	if err := s.claims.Update(c.Request().Context(), &rec); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "claim not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to update claim")
	}
	return c.JSON(http.StatusOK, map[string]any{"claim": rec})
}

// AppendNote appends an admin note; authorship comes from the authenticated
// identity.
func (s *Server) AppendNote(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid claim id")
	}

	var body struct {
		Content string `json:"content"`
	}
	if err := c.Bind(&body); err != nil || body.Content == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "note content is required")
	}

	note := claim.Note{
		Content:   body.Content,
		Author:    identity.FromContext(c).Email,
		Timestamp: time.Now(),
	}
	if err := s.claims.AppendNote(c.Request().Context(), id, note); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "claim not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to append note")
	}
	return c.JSON(http.StatusCreated, note)
}

// DeleteClaim removes a claim (admin only).
func (s *Server) DeleteClaim(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid claim id")
	}
	if err := s.claims.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "claim not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete claim")
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateCheckout creates a hosted checkout session for ancillary services and
// returns the redirect URL after confirming the session is live.
func (s *Server) CreateCheckout(c echo.Context) error {
	var body struct {
		Items []payment.LineItem `json:"items"`
	}
	if err := c.Bind(&body); err != nil || len(body.Items) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "line items are required")
	}

	session, err := s.checkout.CreateSession(c.Request().Context(), body.Items)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "failed to create checkout session")
	}
	if err := s.checkout.ValidateSession(c.Request().Context(), session.ID); err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "checkout session is not live")
	}
	return c.JSON(http.StatusOK, session)
}

// ListUsers returns the account directory (admin only).
func (s *Server) ListUsers(c echo.Context) error {
	accounts, err := s.users.List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list users")
	}
	return c.JSON(http.StatusOK, map[string]any{"users": accounts, "total": len(accounts)})
}

// UpdateUserRole changes an account's directory role (admin only). The change
// reaches tokens at the user's next sign-in.
func (s *Server) UpdateUserRole(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	var body struct {
		Role string `json:"role"`
	}
	if err := c.Bind(&body); err != nil || !identity.ValidRole(body.Role) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid role")
	}

	acct, err := s.users.UpdateRole(c.Request().Context(), id, body.Role)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to update role")
	}
	return c.JSON(http.StatusOK, map[string]any{"user": acct})
}

func (s *Server) lookupClaim(c echo.Context) (*claim.Record, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid claim id")
	}
	rec, err := s.claims.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "claim not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "failed to load claim")
	}
	return rec, nil
}

func paging(c echo.Context) (limit, offset int) {
	limit = 50
	offset = 0
	if v := c.QueryParam("limit"); v != "" {
		if n, err := parsePositive(v); err == nil {
			limit = n
		}
	}
	if v := c.QueryParam("offset"); v != "" {
		if n, err := parsePositive(v); err == nil {
			offset = n
		}
	}
	return limit, offset
}

func parsePositive(s string) (int, error) {
	var n int
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, errors.New("not a number")
		}
		n = n*10 + int(r-'0')
		if n > 1_000_000 {
			return 0, errors.New("out of range")
		}
	}
	return n, nil
}
