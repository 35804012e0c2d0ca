package sms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	openapi "github.com/alibabacloud-go/darabonba-openapi/v2/client"
	dysmsapi "github.com/alibabacloud-go/dysmsapi-20170525/v5/client"
	util "github.com/alibabacloud-go/tea-utils/v2/service"
	"github.com/alibabacloud-go/tea/tea"

	"github.com/Sombhu2022/agri-farm-sub000/pkg/notify"
)

// Config holds Aliyun SMS credentials and message identity.
type Config struct {
	AccessKeyID     string `env:"SMS_ACCESS_KEY_ID"`
	AccessKeySecret string `env:"SMS_ACCESS_KEY_SECRET"`
	SignName        string `env:"SMS_SIGN_NAME"`
	TemplateCode    string `env:"SMS_TEMPLATE_CODE"`
}

var (
	// ErrInvalidConfig indicates a missing configuration value.
	ErrInvalidConfig = errors.New("sms: invalid config")

	// ErrSendFailed indicates the SMS gateway rejected the message.
	ErrSendFailed = errors.New("sms: failed to send")
)

// E.164-ish: optional +, 7 to 15 digits.
var phoneRegex = regexp.MustCompile(`^\+?[1-9][0-9]{6,14}$`)

// Client is the subset of the dysmsapi client the provider depends on.
// Narrowing the dependency keeps the provider testable without Aliyun
// credentials.
type Client interface {
	SendSmsWithOptions(request *dysmsapi.SendSmsRequest, runtime *util.RuntimeOptions) (*dysmsapi.SendSmsResponse, error)
}

// AliyunProvider delivers SMS notifications through Aliyun's dysmsapi
// gateway. Message bodies are passed as the template parameter of a
// pre-registered gateway template.
type AliyunProvider struct {
	client Client
	config Config
}

var _ notify.Provider = (*AliyunProvider)(nil)

// NewAliyunProvider creates an Aliyun-backed SMS provider.
func NewAliyunProvider(cfg Config) (*AliyunProvider, error) {
	if cfg.AccessKeyID == "" || cfg.AccessKeySecret == "" {
		return nil, fmt.Errorf("%w: access key id and secret are required", ErrInvalidConfig)
	}
	if cfg.SignName == "" {
		return nil, fmt.Errorf("%w: SignName is required", ErrInvalidConfig)
	}
	if cfg.TemplateCode == "" {
		return nil, fmt.Errorf("%w: TemplateCode is required", ErrInvalidConfig)
	}

	client, err := dysmsapi.NewClient(&openapi.Config{
		AccessKeyId:     tea.String(cfg.AccessKeyID),
		AccessKeySecret: tea.String(cfg.AccessKeySecret),
	})
	if err != nil {
		return nil, err
	}

	return &AliyunProvider{client: client, config: cfg}, nil
}

// NewAliyunProviderWithClient creates a provider around an existing gateway
// client; used by tests.
func NewAliyunProviderWithClient(client Client, cfg Config) *AliyunProvider {
	return &AliyunProvider{client: client, config: cfg}
}

// Channel implements notify.Provider.
func (p *AliyunProvider) Channel() notify.ChannelType {
	return notify.ChannelSMS
}

// Validate implements notify.Provider.
func (p *AliyunProvider) Validate(_ context.Context, rec *notify.Recipient) bool {
	return phoneRegex.MatchString(rec.Phone)
}

// Send implements notify.Provider.
func (p *AliyunProvider) Send(_ context.Context, _ *notify.Payload, rec *notify.Recipient, content notify.Content) (*notify.Result, error) {
	// The gateway rejects '+'-prefixed numbers for overseas destinations.
	phone := strings.TrimPrefix(rec.Phone, "+")

	param, err := json.Marshal(map[string]string{"content": content.Body})
	if err != nil {
		return nil, errors.Join(ErrSendFailed, err)
	}

	req := &dysmsapi.SendSmsRequest{
		PhoneNumbers:  tea.String(phone),
		SignName:      tea.String(p.config.SignName),
		TemplateCode:  tea.String(p.config.TemplateCode),
		TemplateParam: tea.String(string(param)),
	}

	resp, err := p.client.SendSmsWithOptions(req, &util.RuntimeOptions{})
	if err != nil {
		return nil, errors.Join(ErrSendFailed, err)
	}
	if resp != nil && resp.Body != nil && resp.Body.Code != nil && *resp.Body.Code != "OK" {
		return nil, errors.Join(ErrSendFailed, fmt.Errorf("gateway code %s: %s", tea.StringValue(resp.Body.Code), tea.StringValue(resp.Body.Message)))
	}

	return &notify.Result{Status: notify.StatusSent}, nil
}
