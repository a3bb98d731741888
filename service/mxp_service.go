package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tieubaoca/mxp-gateway/config"
)

// ICafeParams selects an iCafe lookup. For guests use RoomNr and
// DateOfBirth; for crew use PIN and LastName.
type ICafeParams struct {
	RoomNr      string
	DateOfBirth string
	LastName    string
	PIN         *int
}

// MXPService is the outbound client for the MXP system. Every call is a
// single HTTP GET with basic auth; upstream errors are propagated as-is
// with no retry or caching. Payload schemas belong to MXP, so responses
// are decoded into generic maps.
type MXPService interface {
	GetAccount(ctx context.Context, chargeID int) (map[string]interface{}, error)
	GetCrew(ctx context.Context, pin *int) (map[string]interface{}, error)
	GetFolio(ctx context.Context, chargeID int, dateFrom, dateTo string) (map[string]interface{}, error)
	GetDocument(ctx context.Context, id string) (map[string]interface{}, error)
	GetICafe(ctx context.Context, params ICafeParams) (map[string]interface{}, error)
	GetPersonImageByID(ctx context.Context, id int) (map[string]interface{}, error)
	GetQuickCode(ctx context.Context) (map[string]interface{}, error)
	GetSailorManifest(ctx context.Context, installationCode, embarkDate, debarkDate string) (map[string]interface{}, error)
	GetReceiptImage(ctx context.Context, checkNumber, buID int) (map[string]interface{}, error)
	GetPersonInvoice(ctx context.Context, chargeID int) (map[string]interface{}, error)
}

type mxpService struct {
	baseURL  string
	username string
	password string
	client   *http.Client
}

// NewMXPService creates an MXP client from config.
func NewMXPService(cfg config.MXPConfig) MXPService {
	client := &http.Client{}
	if cfg.TimeoutSeconds > 0 {
		client.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	return &mxpService{
		baseURL:  strings.TrimSuffix(cfg.BaseURL, "/"),
		username: cfg.Username,
		password: cfg.Password,
		client:   client,
	}
}

func (s *mxpService) get(ctx context.Context, endpoint string, params url.Values) (map[string]interface{}, error) {
	u := s.baseURL + "/" + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating MXP request: %w", err)
	}
	req.SetBasicAuth(s.username, s.password)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling MXP %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading MXP %s response: %w", endpoint, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("MXP %s returned status %d: %s", endpoint, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result map[string]interface{}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decoding MXP %s response: %w", endpoint, err)
	}
	return result, nil
}

func (s *mxpService) GetAccount(ctx context.Context, chargeID int) (map[string]interface{}, error) {
	params := url.Values{"charge_id": {strconv.Itoa(chargeID)}}
	return s.get(ctx, "account", params)
}

func (s *mxpService) GetCrew(ctx context.Context, pin *int) (map[string]interface{}, error) {
	params := url.Values{}
	if pin != nil {
		params.Set("PIN", strconv.Itoa(*pin))
	}
	return s.get(ctx, "crew", params)
}

func (s *mxpService) GetFolio(ctx context.Context, chargeID int, dateFrom, dateTo string) (map[string]interface{}, error) {
	params := url.Values{"charge_id": {strconv.Itoa(chargeID)}}
	if dateFrom != "" {
		params.Set("date_from", dateFrom)
	}
	if dateTo != "" {
		params.Set("date_to", dateTo)
	}
	return s.get(ctx, "folio", params)
}

func (s *mxpService) GetDocument(ctx context.Context, id string) (map[string]interface{}, error) {
	params := url.Values{"id": {id}}
	return s.get(ctx, "document", params)
}

func (s *mxpService) GetICafe(ctx context.Context, p ICafeParams) (map[string]interface{}, error) {
	params := url.Values{}
	if p.RoomNr != "" {
		params.Set("room_nr", p.RoomNr)
	}
	if p.DateOfBirth != "" {
		params.Set("date_of_birth", p.DateOfBirth)
	}
	if p.LastName != "" {
		params.Set("last_name", p.LastName)
	}
	if p.PIN != nil {
		params.Set("pin", strconv.Itoa(*p.PIN))
	}
	return s.get(ctx, "iCafe", params)
}

func (s *mxpService) GetPersonImageByID(ctx context.Context, id int) (map[string]interface{}, error) {
	params := url.Values{"id": {strconv.Itoa(id)}}
	return s.get(ctx, "personImageById", params)
}

func (s *mxpService) GetQuickCode(ctx context.Context) (map[string]interface{}, error) {
	return s.get(ctx, "quickCode", nil)
}

func (s *mxpService) GetSailorManifest(ctx context.Context, installationCode, embarkDate, debarkDate string) (map[string]interface{}, error) {
	params := url.Values{
		"installation_code":  {installationCode},
		"voyage_embark_date": {embarkDate},
		"voyage_debark_date": {debarkDate},
	}
	return s.get(ctx, "sailorManifest", params)
}

func (s *mxpService) GetReceiptImage(ctx context.Context, checkNumber, buID int) (map[string]interface{}, error) {
	params := url.Values{
		"check_number": {strconv.Itoa(checkNumber)},
		"bu_id":        {strconv.Itoa(buID)},
	}
	return s.get(ctx, "receiptImage", params)
}

func (s *mxpService) GetPersonInvoice(ctx context.Context, chargeID int) (map[string]interface{}, error) {
	params := url.Values{"charge_id": {strconv.Itoa(chargeID)}}
	return s.get(ctx, "personInvoice", params)
}
