package controllers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront-service/controllers"
	"storefront-service/models"
	"storefront-service/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type couponTestEnv struct {
	router  *gin.Engine
	coupons *stubCouponRepo
	user    *models.User
}

func newCouponTestEnv() *couponTestEnv {
	coupons := newStubCouponRepo()
	user := &models.User{
		ID:    primitive.NewObjectID(),
		Name:  "Test Customer",
		Email: "customer@example.com",
		Role:  models.RoleCustomer,
	}

	ctrl := controllers.NewCouponController(services.NewCouponService(coupons))

	router := gin.New()
	group := router.Group("/coupons", withUser(user))
	group.GET("", ctrl.GetCoupon)
	group.GET("/validate", ctrl.ValidateCoupon)

	return &couponTestEnv{router: router, coupons: coupons, user: user}
}

func (env *couponTestEnv) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func (env *couponTestEnv) seedCoupon(code string, expiresIn time.Duration) {
	env.coupons.coupons[env.user.ID] = &models.Coupon{
		ID:                 primitive.NewObjectID(),
		Code:               code,
		DiscountPercentage: 10,
		ExpirationDate:     time.Now().Add(expiresIn),
		IsActive:           true,
		UserID:             env.user.ID,
	}
}

func TestCouponController_GetCouponNoneActive(t *testing.T) {
	env := newCouponTestEnv()

	w := env.get("/coupons")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "null", w.Body.String())
}

func TestCouponController_GetActiveCoupon(t *testing.T) {
	env := newCouponTestEnv()
	env.seedCoupon("SAVE10", 24*time.Hour)

	w := env.get("/coupons")
	assert.Equal(t, http.StatusOK, w.Code)

	var coupon models.Coupon
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &coupon))
	assert.Equal(t, "SAVE10", coupon.Code)
	assert.Equal(t, 10.0, coupon.DiscountPercentage)
	assert.True(t, coupon.IsActive)
}

func TestCouponController_ValidateCoupon(t *testing.T) {
	env := newCouponTestEnv()
	env.seedCoupon("SAVE10", 24*time.Hour)

	w := env.get("/coupons/validate?code=SAVE10")
	assert.Equal(t, http.StatusOK, w.Code)

	var validated models.ValidatedCoupon
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &validated))
	assert.Equal(t, "SAVE10", validated.Code)
	assert.Equal(t, 10.0, validated.DiscountPercentage)
}

func TestCouponController_ValidateMissingCode(t *testing.T) {
	env := newCouponTestEnv()

	w := env.get("/coupons/validate")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCouponController_ValidateUnknownCode(t *testing.T) {
	env := newCouponTestEnv()
	env.seedCoupon("SAVE10", 24*time.Hour)

	w := env.get("/coupons/validate?code=WRONG")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCouponController_ValidateExpiredCouponDeactivates(t *testing.T) {
	env := newCouponTestEnv()
	env.seedCoupon("OLD10", -time.Hour)

	w := env.get("/coupons/validate?code=OLD10")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.coupons.coupons[env.user.ID].IsActive)

	// A second attempt reports not-found since the coupon is now inactive.
	w = env.get("/coupons/validate?code=OLD10")
	assert.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]any
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Coupon not found", body["message"])
}
