package google

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/khata-app/khata/internal/config"
	"github.com/khata-app/khata/internal/rest"
	"github.com/khata-app/khata/pkg/user"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/sheets/v4"
)

// ErrNotConnected signals a spreadsheet operation without a linked Google
// account. Surfaced to clients as an auth error.
var ErrNotConnected = errors.New("google account not connected")

type googleAuthRedirect struct {
	RedirectUrl string `json:"redirectUrl"`
}

type statusDTO struct {
	Connected bool   `json:"connected"`
	SheetId   string `json:"sheetId,omitempty"`
}

// GoogleAuth owns the OAuth flow and the per-owner link state
// (tokens + remembered spreadsheet id).
type GoogleAuth struct {
	db          *sql.DB
	userService user.Service
	oauthConfig *oauth2.Config
}

func NewGoogleAuth(db *sql.DB, userService user.Service, cfg config.Application) *GoogleAuth {
	oauthConfig := &oauth2.Config{
		ClientID:     cfg.Google.ClientId,
		ClientSecret: cfg.Google.ClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  cfg.Host + "/api/google/auth/callback",
		Scopes:       []string{sheets.SpreadsheetsScope, drive.DriveFileScope},
	}

	return &GoogleAuth{db: db, userService: userService, oauthConfig: oauthConfig}
}

func (g *GoogleAuth) OAuthLogin(w http.ResponseWriter, r *http.Request) {
	userId, err := user.CurrentId(r.Context())
	if err != nil {
		log.Error("unable to retrieve current user: ", err)
		rest.RespondError(w, http.StatusInternalServerError, "unable to retrieve current user")
		return
	}

	_, err = g.db.Exec("DELETE FROM google_sheets_auth WHERE user_id = $1", userId)
	if err != nil {
		log.Errorf("failed to delete old Google auth row for user %d: %v", userId, err)
		rest.RespondError(w, http.StatusInternalServerError, "Failed to handle Google authentication")
		return
	}

	stateNonce := uuid.New().String()
	finalUrl := r.URL.Query().Get("finalUrl")

	// store nonce for the use in the DB
	_, err = g.db.Exec("INSERT INTO google_sheets_auth (user_id, nonce) VALUES ($1, $2)", userId, stateNonce)
	if err != nil {
		log.Errorf("failed to store Google auth nonce for user %d: %v", userId, err)
		rest.RespondError(w, http.StatusInternalServerError, "Failed to handle Google authentication")
		return
	}

	log.Tracef("Redirecting to Google auth URL with nonce: %s", stateNonce)
	u := g.oauthConfig.AuthCodeURL(finalUrl+"|"+stateNonce, oauth2.AccessTypeOffline, oauth2.ApprovalForce)

	rest.RespondJSON(w, http.StatusOK, googleAuthRedirect{RedirectUrl: u})
}

func (g *GoogleAuth) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	code := r.FormValue("code")
	state := r.FormValue("state")

	parts := strings.SplitN(state, "|", 2)
	if len(parts) != 2 {
		rest.RespondError(w, http.StatusBadRequest, "invalid state parameter")
		return
	}
	finalUrl := parts[0]
	nonce := parts[1]

	token, err := g.oauthConfig.Exchange(context.Background(), code)
	if err != nil {
		err := fmt.Errorf("unable to exchange code for token: %v", err)
		log.Error(err)
		http.Redirect(w, r, finalUrl+"?success=false", http.StatusFound)
		return
	}

	_, err = g.db.Exec("UPDATE google_sheets_auth SET access_token = $1, refresh_token = $2, expiry = $3 WHERE nonce = $4",
		token.AccessToken, token.RefreshToken, token.Expiry.Unix(), nonce)
	if err != nil {
		err := fmt.Errorf("unable to store Google auth token for nonce: %v", err)
		log.Error(err)
		http.Redirect(w, r, finalUrl+"?success=false", http.StatusFound)
		return
	}
	log.Debug("Successfully stored Google auth token for nonce: ", nonce)
	http.Redirect(w, r, finalUrl+"?success=true", http.StatusFound)
}

func (g *GoogleAuth) OAuthLogout(w http.ResponseWriter, r *http.Request) {
	userId, err := user.CurrentId(r.Context())
	if err != nil {
		log.Error("unable to retrieve current user: ", err)
		rest.RespondError(w, http.StatusInternalServerError, "unable to retrieve current user")
		return
	}
	_, err = g.db.Exec("DELETE FROM google_sheets_auth WHERE user_id = $1", userId)
	if err != nil {
		log.Errorf("failed to delete Google auth row for user %d: %v", userId, err)
		rest.RespondError(w, http.StatusInternalServerError, "Failed to handle Google authentication")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (g *GoogleAuth) Status(w http.ResponseWriter, r *http.Request) {
	userId, err := user.CurrentId(r.Context())
	if err != nil {
		log.Error("unable to retrieve current user: ", err)
		rest.RespondError(w, http.StatusInternalServerError, "unable to retrieve current user")
		return
	}

	token, err := g.getToken(r.Context(), userId)
	if err != nil {
		rest.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if token == nil {
		rest.RespondJSON(w, http.StatusOK, statusDTO{Connected: false})
		return
	}
	sheetId, err := g.getSpreadsheetId(r.Context(), userId)
	if err != nil {
		rest.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	rest.RespondJSON(w, http.StatusOK, statusDTO{Connected: true, SheetId: sheetId})
}

func (g *GoogleAuth) getToken(ctx context.Context, userId int) (*oauth2.Token, error) {
	var token oauth2.Token
	var accessToken sql.NullString
	var refreshToken sql.NullString
	var expiryTimestamp sql.NullInt64
	err := g.db.QueryRowContext(ctx,
		"SELECT access_token, refresh_token, expiry FROM google_sheets_auth WHERE user_id = $1", userId).
		Scan(&accessToken, &refreshToken, &expiryTimestamp)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("unable to retrieve Google auth token: %v", err)
	}
	if !accessToken.Valid || accessToken.String == "" {
		// row exists from a login that never completed the callback
		return nil, nil
	}

	token.AccessToken = accessToken.String
	token.RefreshToken = refreshToken.String
	token.Expiry = time.Unix(expiryTimestamp.Int64, 0)
	return &token, nil
}

func (g *GoogleAuth) getClient(ctx context.Context, userId int) (*http.Client, error) {
	token, err := g.getToken(ctx, userId)
	if err != nil {
		log.Error(err)
		return nil, err
	}
	if token == nil {
		return nil, nil
	}
	return g.oauthConfig.Client(context.Background(), token), nil
}

func (g *GoogleAuth) getSpreadsheetId(ctx context.Context, userId int) (string, error) {
	var spreadsheetId sql.NullString
	err := g.db.QueryRowContext(ctx,
		"SELECT spreadsheet_id FROM google_sheets_auth WHERE user_id = $1", userId).Scan(&spreadsheetId)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	} else if err != nil {
		return "", fmt.Errorf("unable to retrieve spreadsheet id: %v", err)
	}
	return spreadsheetId.String, nil
}

func (g *GoogleAuth) setSpreadsheetId(ctx context.Context, userId int, spreadsheetId string) error {
	_, err := g.db.ExecContext(ctx,
		"UPDATE google_sheets_auth SET spreadsheet_id = $1 WHERE user_id = $2", spreadsheetId, userId)
	if err != nil {
		return fmt.Errorf("unable to store spreadsheet id: %v", err)
	}
	return nil
}
