package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/inkfolio/internal/config"
	"github.com/inkfolio/internal/constants"

	"github.com/mojocn/base64Captcha"
)

const captchaCharset = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// CaptchaVerifyPayload 验证码校验载荷
type CaptchaVerifyPayload struct {
	CaptchaID      string `json:"captcha_id"`
	CaptchaCode    string `json:"captcha_code"`
	TurnstileToken string `json:"turnstile_token"`
}

// CaptchaChallenge 下发给登录页的验证码信息
type CaptchaChallenge struct {
	Provider    string `json:"provider"`
	Enabled     bool   `json:"enabled"`
	CaptchaID   string `json:"captcha_id,omitempty"`
	ImageBase64 string `json:"image_base64,omitempty"`
	SiteKey     string `json:"site_key,omitempty"`
}

type turnstileVerifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// CaptchaService 后台登录验证码
// 配置全部来自 captcha 配置段，图片验证码答案保存在进程内存
type CaptchaService struct {
	cfg        config.CaptchaConfig
	httpClient *http.Client
	store      base64Captcha.Store
}

// NewCaptchaService 创建验证码服务
func NewCaptchaService(cfg config.CaptchaConfig) *CaptchaService {
	cfg = config.NormalizeCaptcha(cfg)
	s := &CaptchaService{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: time.Duration(cfg.Turnstile.TimeoutMS) * time.Millisecond},
	}
	if cfg.Provider == constants.CaptchaProviderImage {
		s.store = base64Captcha.NewMemoryStore(cfg.Image.MaxStore, time.Duration(cfg.Image.ExpireSeconds)*time.Second)
	}
	return s
}

// SceneEnabled 场景是否需要验证码
func (s *CaptchaService) SceneEnabled(scene string) bool {
	if s == nil || s.cfg.Provider == constants.CaptchaProviderNone {
		return false
	}
	switch scene {
	case constants.CaptchaSceneLogin:
		return s.cfg.Scenes.Login
	default:
		return false
	}
}

// Challenge 生成场景对应的验证码；图片模式每次生成新挑战
func (s *CaptchaService) Challenge(scene string) (*CaptchaChallenge, error) {
	if !s.SceneEnabled(scene) {
		return &CaptchaChallenge{Provider: constants.CaptchaProviderNone}, nil
	}
	challenge := &CaptchaChallenge{Provider: s.cfg.Provider, Enabled: true}
	switch s.cfg.Provider {
	case constants.CaptchaProviderImage:
		id, b64s, err := s.generateImage()
		if err != nil {
			return nil, err
		}
		challenge.CaptchaID = id
		challenge.ImageBase64 = b64s
	case constants.CaptchaProviderTurnstile:
		if s.cfg.Turnstile.SiteKey == "" {
			return nil, ErrCaptchaConfigInvalid
		}
		challenge.SiteKey = s.cfg.Turnstile.SiteKey
	}
	return challenge, nil
}

func (s *CaptchaService) generateImage() (string, string, error) {
	image := s.cfg.Image
	driver := base64Captcha.NewDriverString(
		image.Height,
		image.Width,
		image.NoiseCount,
		image.ShowLine,
		image.Length,
		captchaCharset,
		nil,
		base64Captcha.DefaultEmbeddedFonts,
		nil,
	)
	id, b64s, _, err := base64Captcha.NewCaptcha(driver, s.store).Generate()
	if err != nil {
		return "", "", err
	}
	return strings.TrimSpace(id), strings.TrimSpace(b64s), nil
}

// Verify 按场景校验验证码，场景未开启时直接通过
func (s *CaptchaService) Verify(ctx context.Context, scene string, payload CaptchaVerifyPayload, clientIP string) error {
	if !s.SceneEnabled(scene) {
		return nil
	}
	switch s.cfg.Provider {
	case constants.CaptchaProviderImage:
		captchaID := strings.TrimSpace(payload.CaptchaID)
		captchaCode := strings.TrimSpace(payload.CaptchaCode)
		if captchaID == "" || captchaCode == "" {
			return ErrCaptchaRequired
		}
		if !s.store.Verify(captchaID, captchaCode, true) {
			return ErrCaptchaInvalid
		}
		return nil
	case constants.CaptchaProviderTurnstile:
		token := strings.TrimSpace(payload.TurnstileToken)
		if token == "" {
			return ErrCaptchaRequired
		}
		return s.verifyTurnstile(ctx, token, strings.TrimSpace(clientIP))
	default:
		return ErrCaptchaConfigInvalid
	}
}

func (s *CaptchaService) verifyTurnstile(ctx context.Context, token, clientIP string) error {
	cfg := s.cfg.Turnstile
	if cfg.SecretKey == "" || cfg.VerifyURL == "" {
		return ErrCaptchaConfigInvalid
	}

	form := url.Values{}
	form.Set("secret", cfg.SecretKey)
	form.Set("response", token)
	if clientIP != "" {
		form.Set("remoteip", clientIP)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.VerifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCaptchaVerifyFailed, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCaptchaVerifyFailed, err)
	}
	defer resp.Body.Close()

	var result turnstileVerifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("%w: %v", ErrCaptchaVerifyFailed, err)
	}
	if !result.Success {
		return ErrCaptchaInvalid
	}
	return nil
}
