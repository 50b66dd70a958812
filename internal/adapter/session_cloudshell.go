/*
Copyright 2024 Alexandre Mahdhaoui

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package adapter

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/alexandremahdhaoui/ucsbind/internal/types"
)

// DefaultCloudShellPort is the port of the CloudShell automation API.
const DefaultCloudShellPort = 8029

const (
	cloudShellAPIPath     = "/ResourceManagerApiService/"
	cloudShellMachineName = "ucsbind"

	cloudShellUserAttribute     = "User"
	cloudShellPasswordAttribute = "Password"
)

var (
	ErrCloudShellAPI             = errors.New("CloudShell API error")
	ErrResourceNotInReservation  = errors.New("resource is not part of the reservation")
	ErrResourceAttributeNotFound = errors.New("resource attribute not found")

	errCloudShellLogon          = errors.New("logging on to CloudShell")
	errCloudShellLogoff         = errors.New("logging off CloudShell")
	errCloudShellReservation    = errors.New("getting reservation details")
	errCloudShellResource       = errors.New("getting resource details")
	errCloudShellDecrypt        = errors.New("decrypting password")
	errCloudShellRequest        = errors.New("sending request to CloudShell")
	errCloudShellEmptyToken     = errors.New("CloudShell returned an empty token")
	errCloudShellInvalidStatus  = errors.New("unexpected HTTP status")
	errCloudShellMissingAddress = errors.New("resource has no address")
)

// CloudShellConfig identifies a resource in a CloudShell reservation, and the user who owns the reservation.
type CloudShellConfig struct {
	// ServerAddress is the host of the CloudShell server.
	ServerAddress string `json:"serverAddress"`
	// Port is the port of the CloudShell automation API. Defaults to DefaultCloudShellPort.
	Port int `json:"port"`
	// Username is the name of the user who owns the reservation.
	Username string `json:"username"`
	// Password is the password of Username.
	Password string `json:"password"`
	// Domain is the domain of the reservation.
	Domain string `json:"domain"`
	// ReservationID is the UUID of the reservation.
	ReservationID string `json:"reservationID"`
	// ResourceName is the resource name (not the hostname) of the UCS manager.
	ResourceName string `json:"resourceName"`
}

// ----------------------------------------------- CLOUDSHELL PROVIDER ---------------------------------------------- //

// NewCloudShellSessionProvider returns a SessionProvider reading the UCS manager connection from the attributes of a
// CloudShell resource.
func NewCloudShellSessionProvider(config CloudShellConfig, httpClient *http.Client) SessionProvider {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	port := config.Port
	if port == 0 {
		port = DefaultCloudShellPort
	}

	baseURL := strings.TrimSuffix(config.ServerAddress, "/")
	if !strings.Contains(baseURL, "://") {
		baseURL = fmt.Sprintf("http://%s:%d", baseURL, port)
	}

	return &cloudShellSessionProvider{
		config:     config,
		baseURL:    baseURL + cloudShellAPIPath,
		httpClient: httpClient,
	}
}

type cloudShellSessionProvider struct {
	config     CloudShellConfig
	baseURL    string
	httpClient *http.Client
}

func (p *cloudShellSessionProvider) Connection(ctx context.Context) (types.Connection, error) {
	token, err := p.logon(ctx)
	if err != nil {
		return types.Connection{}, errors.Join(err, ErrSessionProvider)
	}

	defer func() {
		if err := p.logoff(ctx, token); err != nil {
			slog.WarnContext(ctx, "logging off CloudShell", "error", err.Error())
		}
	}()

	if err := p.checkReservation(ctx, token); err != nil {
		return types.Connection{}, errors.Join(err, ErrSessionProvider)
	}

	conn, err := p.resourceConnection(ctx, token)
	if err != nil {
		return types.Connection{}, errors.Join(err, ErrSessionProvider)
	}

	if err := validateConnection(conn); err != nil {
		return types.Connection{}, errors.Join(err, ErrSessionProvider)
	}

	return conn, nil
}

// ------------------------------------------------------ API ------------------------------------------------------- //

func (p *cloudShellSessionProvider) logon(ctx context.Context) (string, error) {
	resp, err := p.do(ctx, "", csLogonRequest{
		Username:   p.config.Username,
		Password:   p.config.Password,
		DomainName: p.config.Domain,
	})
	if err != nil {
		return "", errors.Join(err, errCloudShellLogon)
	}

	if resp.Info.Token.Token == "" {
		return "", errors.Join(errCloudShellEmptyToken, errCloudShellLogon)
	}

	return resp.Info.Token.Token, nil
}

func (p *cloudShellSessionProvider) logoff(ctx context.Context, token string) error {
	if _, err := p.do(ctx, token, csLogoffRequest{}); err != nil {
		return errors.Join(err, errCloudShellLogoff)
	}

	return nil
}

func (p *cloudShellSessionProvider) checkReservation(ctx context.Context, token string) error {
	resp, err := p.do(ctx, token, csGetReservationDetailsRequest{ReservationID: p.config.ReservationID})
	if err != nil {
		return errors.Join(err, errCloudShellReservation)
	}

	for _, r := range resp.Info.Reservation.Resources {
		if r.Name == p.config.ResourceName {
			return nil
		}
	}

	return errors.Join(
		fmt.Errorf("resource %q in reservation %q", p.config.ResourceName, p.config.ReservationID),
		ErrResourceNotInReservation,
		errCloudShellReservation,
	)
}

func (p *cloudShellSessionProvider) resourceConnection(ctx context.Context, token string) (types.Connection, error) {
	resp, err := p.do(ctx, token, csGetResourceDetailsRequest{
		ResourceFullPath: p.config.ResourceName,
		ShowAllLevels:    false,
	})
	if err != nil {
		return types.Connection{}, errors.Join(err, errCloudShellResource)
	}

	if resp.Info.Address == "" {
		return types.Connection{}, errors.Join(errCloudShellMissingAddress, errCloudShellResource)
	}

	user, err := resp.Info.attribute(cloudShellUserAttribute)
	if err != nil {
		return types.Connection{}, errors.Join(err, errCloudShellResource)
	}

	encrypted, err := resp.Info.attribute(cloudShellPasswordAttribute)
	if err != nil {
		return types.Connection{}, errors.Join(err, errCloudShellResource)
	}

	password, err := p.decryptPassword(ctx, token, encrypted)
	if err != nil {
		return types.Connection{}, errors.Join(err, errCloudShellResource)
	}

	return types.Connection{
		Address:  resp.Info.Address,
		Username: user,
		Password: password,
	}, nil
}

func (p *cloudShellSessionProvider) decryptPassword(ctx context.Context, token, encrypted string) (string, error) {
	resp, err := p.do(ctx, token, csDecryptPasswordRequest{EncryptedString: encrypted})
	if err != nil {
		return "", errors.Join(err, errCloudShellDecrypt)
	}

	return resp.Info.Value, nil
}

// --------------------------------------------- UTILS -------------------------------------------------------------- //

type csRequest interface {
	command() string
}

func (p *cloudShellSessionProvider) do(ctx context.Context, token string, req csRequest) (*csResponse, error) {
	body, err := xml.Marshal(req)
	if err != nil {
		return nil, errors.Join(err, errCloudShellRequest)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+req.command(), bytes.NewReader(body))
	if err != nil {
		return nil, errors.Join(err, errCloudShellRequest)
	}

	httpReq.Header.Set("Content-Type", "text/xml")
	httpReq.Header.Set("Accept", "*/*")

	if token != "" {
		httpReq.Header.Set("Authorization", fmt.Sprintf("MachineName=%s;Token=%s", cloudShellMachineName, token))
	}

	httpResp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.Join(err, errCloudShellRequest)
	}

	defer func() { _ = httpResp.Body.Close() }()

	out, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, errors.Join(err, errCloudShellRequest)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, errors.Join(
			fmt.Errorf("command %s: got status %d", req.command(), httpResp.StatusCode),
			errCloudShellInvalidStatus,
			errCloudShellRequest,
		)
	}

	resp := new(csResponse)
	if err := xml.Unmarshal(out, resp); err != nil {
		return nil, errors.Join(err, errCloudShellRequest)
	}

	if !resp.Success {
		return nil, errors.Join(
			fmt.Errorf("command %s: error code %s: %s", req.command(), resp.ErrorCode, resp.ErrorMessage),
			ErrCloudShellAPI,
		)
	}

	return resp, nil
}
