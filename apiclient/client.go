// Package apiclient is the typed HTTP client the bot uses against the
// backend API. It never interprets a transport failure as a negative
// answer: anything that prevented a request from completing maps to
// ErrUnavailable.
package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrValidation  = errors.New("validation error")
	ErrUnavailable = errors.New("backend unavailable")
)

type RoomCreated struct {
	QRToken       string `json:"qr_token"`
	QRLink        string `json:"qr_link"`
	QRImageBase64 string `json:"qr_image_base64"`
}

type RoomSummary struct {
	Name    string `json:"name"`
	QRToken string `json:"qr_token"`
}

type RoomInfo struct {
	Address string `json:"address"`
	Name    string `json:"name"`
}

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

type Client struct {
	baseURL      string
	serviceToken string
	httpClient   *http.Client
}

func New(baseURL, serviceToken string) *Client {
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		serviceToken: serviceToken,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) IsAuthorized(ctx context.Context, identity string) (bool, error) {
	var body struct {
		Authorized bool `json:"authorized"`
	}
	err := c.get(ctx, "/feedback/admin/is_authorized/"+url.PathEscape(identity), &body)
	if err != nil {
		return false, err
	}
	return body.Authorized, nil
}

func (c *Client) Locations(ctx context.Context) ([]string, error) {
	var addresses []string
	if err := c.get(ctx, "/feedback/admin/locations", &addresses); err != nil {
		return nil, err
	}
	return addresses, nil
}

func (c *Client) AddLocation(ctx context.Context, address string) error {
	form := url.Values{"address": {address}}
	return c.postForm(ctx, "/feedback/admin/add_location", form, nil)
}

func (c *Client) CreateRoom(ctx context.Context, address, name string, tgGroupID int64) (*RoomCreated, error) {
	form := url.Values{
		"address":     {address},
		"name":        {name},
		"tg_group_id": {strconv.FormatInt(tgGroupID, 10)},
	}
	var created RoomCreated
	if err := c.postForm(ctx, "/feedback/admin/create_room", form, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) RoomsByLocation(ctx context.Context, address string) ([]RoomSummary, error) {
	var rooms []RoomSummary
	path := "/feedback/admin/rooms/by_location?address=" + url.QueryEscape(address)
	if err := c.get(ctx, path, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

func (c *Client) RoomInfo(ctx context.Context, token string) (*RoomInfo, error) {
	var info RoomInfo
	if err := c.get(ctx, "/feedback/room/"+url.PathEscape(token), &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	req.Header.Set("Authorization", "Bearer "+c.serviceToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", ErrUnavailable, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(resp.Body)
	var body errorBody
	_ = json.Unmarshal(raw, &body)

	var kindErr error
	switch body.Kind {
	case "not_found":
		kindErr = ErrNotFound
	case "conflict":
		kindErr = ErrConflict
	case "validation":
		kindErr = ErrValidation
	case "unavailable":
		kindErr = ErrUnavailable
	default:
		if resp.StatusCode == http.StatusNotFound {
			kindErr = ErrNotFound
		} else {
			kindErr = ErrValidation
		}
	}
	if body.Error != "" {
		return fmt.Errorf("%w: %s", kindErr, body.Error)
	}
	return fmt.Errorf("%w: status %d", kindErr, resp.StatusCode)
}
