package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"magicauth/internal/services"
)

type VerificationHandler struct {
	Service     *services.VerificationService
	Tokens      *services.TokenService
	LandingPage string // путь к static/index.html
}

func NewVerificationHandler(service *services.VerificationService, tokens *services.TokenService, landingPage string) *VerificationHandler {
	return &VerificationHandler{Service: service, Tokens: tokens, LandingPage: landingPage}
}

// @Summary      Запуск верификации номера
// @Description  Создаёт сессию и запускает magic auth проверку у провайдера
// @Tags         Verification
// @Accept       json
// @Produce      json
// @Param        request  body      object{phoneNumber=string}  true  "Номер телефона"
// @Success      200      {object}  services.StartResult
// @Failure      400      {object}  map[string]string
// @Router       /api/start-verification [post]
func (h *VerificationHandler) StartVerification(c *gin.Context) {
	var req struct {
		PhoneNumber string `json:"phoneNumber"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.Service.Start(req.PhoneNumber, clientIP(c))
	if err != nil {
		log.Printf("[magic][start] failed: phone=%s err=%v", req.PhoneNumber, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary      Проверка токена верификации
// @Description  Сверяет токен у провайдера и обновляет статус сессии
// @Tags         Verification
// @Accept       json
// @Produce      json
// @Param        request  body      object{phoneNumber=string,token=string}  true  "Номер и токен"
// @Success      200      {object}  map[string]bool
// @Failure      400      {object}  map[string]string
// @Router       /api/check-verification [post]
func (h *VerificationHandler) CheckVerification(c *gin.Context) {
	var req struct {
		PhoneNumber string `json:"phoneNumber"`
		Token       string `json:"token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	verified, err := h.Service.Check(req.PhoneNumber, req.Token, clientIP(c))
	if err != nil {
		log.Printf("[magic][check] failed: phone=%s err=%v", req.PhoneNumber, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"verified": verified})
}

// @Summary      Статус сессии
// @Description  Возвращает номер и текущий статус по state-токену
// @Tags         Verification
// @Accept       json
// @Produce      json
// @Param        request  body      object{state=string}  true  "State-токен"
// @Success      200      {object}  services.SessionInfo
// @Failure      400      {object}  map[string]string
// @Failure      404      {object}  map[string]string
// @Router       /api/get-session [post]
func (h *VerificationHandler) GetSession(c *gin.Context) {
	var req struct {
		State string `json:"state"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	info, err := h.Service.GetSession(req.State)
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, info)
}

// @Summary      Callback провайдера
// @Description  Редирект браузера после out-of-band проверки
// @Tags         Verification
// @Produce      html
// @Param        state  query  string  true   "State-токен"
// @Param        error  query  string  false  "Ошибка провайдера"
// @Success      200
// @Failure      400  {object}  map[string]string
// @Router       /callback [get]
func (h *VerificationHandler) Callback(c *gin.Context) {
	state := c.Query("state")
	errParam := c.Query("error")

	if err := h.Service.HandleCallback(state, errParam); err != nil {
		if errors.Is(err, services.ErrInvalidState) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid state parameter"})
			return
		}
		log.Printf("[magic][callback] failed: state=%s err=%v", state, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.File(h.LandingPage)
}

// @Summary      Токен подтверждённой сессии
// @Description  Выдаёт JWT по verified-сессии для downstream-сервисов
// @Tags         Verification
// @Accept       json
// @Produce      json
// @Param        request  body      object{state=string}  true  "State-токен"
// @Success      200      {object}  map[string]string
// @Failure      400      {object}  map[string]string
// @Failure      404      {object}  map[string]string
// @Failure      409      {object}  map[string]string
// @Router       /api/session-token [post]
func (h *VerificationHandler) IssueSessionToken(c *gin.Context) {
	var req struct {
		State string `json:"state"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.Tokens.IssueSessionToken(req.State)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		case errors.Is(err, services.ErrNotVerified):
			c.JSON(http.StatusConflict, gin.H{"error": "Session is not verified"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"accessToken": token})
}
