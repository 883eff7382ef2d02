package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"gorm.io/gorm"

	"github.com/linqiu919/ldc-store/internal/config"
	"github.com/linqiu919/ldc-store/internal/model"
	"github.com/linqiu919/ldc-store/internal/pkg/database"
)

var OAuth = new(OAuthService)

type OAuthService struct {
	// HTTPClient 可注入（测试用），为空时使用默认客户端
	HTTPClient *http.Client
}

// oauthTokenResponse 换取token接口返回
type oauthTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Error       string `json:"error"`
}

// oauthUserInfo 用户信息接口返回
type oauthUserInfo struct {
	ID        json.Number `json:"id"`
	Username  string      `json:"username"`
	Name      string      `json:"name"`
	AvatarURL string      `json:"avatar_url"`
	Email     string      `json:"email"`
}

func (s *OAuthService) client() *http.Client {
	if s.HTTPClient != nil {
		return s.HTTPClient
	}
	return &http.Client{Timeout: 10 * time.Second}
}

// BuildAuthURL 构造授权页跳转链接
func (s *OAuthService) BuildAuthURL(state string) string {
	cfg := config.GlobalConfig.OAuth
	query := url.Values{}
	query.Set("client_id", cfg.ClientID)
	query.Set("redirect_uri", cfg.RedirectURL)
	query.Set("response_type", "code")
	query.Set("state", state)
	return cfg.AuthorizeURL + "?" + query.Encode()
}

// HandleCallback 授权回调：用code换token、拉取用户信息、按OAuthID落库
func (s *OAuthService) HandleCallback(code string) (*model.User, error) {
	cfg := config.GlobalConfig.OAuth

	// 换取access_token
	form := url.Values{}
	form.Set("client_id", cfg.ClientID)
	form.Set("client_secret", cfg.ClientSecret)
	form.Set("code", code)
	form.Set("grant_type", "authorization_code")
	form.Set("redirect_uri", cfg.RedirectURL)

	resp, err := s.client().PostForm(cfg.TokenURL, form)
	if err != nil {
		return nil, fmt.Errorf("请求token接口失败: %v", err)
	}
	defer resp.Body.Close()

	var tokenResp oauthTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return nil, fmt.Errorf("解析token响应失败: %v", err)
	}
	if tokenResp.AccessToken == "" {
		return nil, fmt.Errorf("获取access_token失败: %s", tokenResp.Error)
	}

	// 拉取用户信息
	req, err := http.NewRequest(http.MethodGet, cfg.UserInfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+tokenResp.AccessToken)

	infoResp, err := s.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("请求用户信息失败: %v", err)
	}
	defer infoResp.Body.Close()

	var info oauthUserInfo
	if err := json.NewDecoder(infoResp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("解析用户信息失败: %v", err)
	}
	if info.ID.String() == "" {
		return nil, fmt.Errorf("用户信息缺少ID")
	}

	return s.upsertUser(&info)
}

// upsertUser 按OAuthID查找或创建用户，已存在则刷新资料
func (s *OAuthService) upsertUser(info *oauthUserInfo) (*model.User, error) {
	oauthID := info.ID.String()

	nickname := info.Name
	if nickname == "" {
		nickname = info.Username
	}

	var user model.User
	err := database.DB.Where("oauth_id = ?", oauthID).First(&user).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user = model.User{
			OAuthID:  oauthID,
			Username: info.Username,
			Nickname: nickname,
			Avatar:   info.AvatarURL,
			Email:    info.Email,
		}
		if err := database.DB.Create(&user).Error; err != nil {
			return nil, err
		}
		return &user, nil
	}

	// 刷新资料
	updates := map[string]interface{}{
		"username": info.Username,
		"nickname": nickname,
		"avatar":   info.AvatarURL,
	}
	if info.Email != "" {
		updates["email"] = info.Email
	}
	if err := database.DB.Model(&user).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
