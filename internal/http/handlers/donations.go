package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/orgdesk/orgdesk/internal/apierr"
	"github.com/orgdesk/orgdesk/internal/listing"
	"github.com/orgdesk/orgdesk/internal/models"
)

// DonationHandler manages donation record endpoints.
type DonationHandler struct {
	db *gorm.DB
}

// NewDonationHandler constructs a DonationHandler.
func NewDonationHandler(db *gorm.DB) *DonationHandler {
	return &DonationHandler{db: db}
}

var donationListSpec = listing.Spec{
	SearchColumns: []string{"donor_name", "receipt_no"},
	SortColumns: map[string]string{
		"createdAt": "created_at",
		"donatedAt": "donated_at",
		"amount":    "amount",
	},
	DefaultSort: "created_at DESC",
}

// donationListQuery defines filters for the donation list view.
type donationListQuery struct {
	Page        int    `form:"page,default=1"`
	Limit       int    `form:"limit,default=10"`
	Search      string `form:"search"`
	PaymentMode string `form:"paymentMode"`
	Status      string `form:"status"`
	Sort        string `form:"sort"`
	Order       string `form:"order"`
}

// List returns donation records with paging, search and filters.
func (h *DonationHandler) List(c *gin.Context) {
	var q donationListQuery
	if errBind := c.ShouldBindQuery(&q); errBind != nil {
		respondError(c, apierr.InvalidArgument("invalid query parameters"))
		return
	}
	res, errRun := listing.Run[models.Donation](c.Request.Context(), h.db, donationListSpec, listing.Params{
		Page:   q.Page,
		Limit:  q.Limit,
		Search: q.Search,
		Filters: map[string]any{
			"payment_mode": q.PaymentMode,
			"status":       q.Status,
		},
		Sort: q.Sort,
		Desc: sortDesc(q.Order),
	})
	if errRun != nil {
		respondError(c, errRun)
		return
	}
	respondPage(c, res)
}

// Get returns a single donation record.
func (h *DonationHandler) Get(c *gin.Context) {
	id, errParse := parseID(c)
	if errParse != nil {
		respondError(c, errParse)
		return
	}
	var row models.Donation
	if errFind := h.db.WithContext(c.Request.Context()).First(&row, id).Error; errFind != nil {
		respondError(c, translateStoreError(errFind, "", "donation not found"))
		return
	}
	respondData(c, http.StatusOK, "OK", row)
}

// createDonationRequest defines the request body for donation entry.
type createDonationRequest struct {
	DonorName   string `json:"donorName"`
	Phone       string `json:"phone"`
	ReceiptNo   string `json:"receiptNo"`
	Amount      int64  `json:"amount"`
	PaymentMode string `json:"paymentMode"`
	Status      string `json:"status"`
	DonatedAt   string `json:"donatedAt"`
}

// Create persists a donation record. Duplicate receipt numbers are
// rejected by the unique index and reported as a conflict.
func (h *DonationHandler) Create(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	var body createDonationRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		respondError(c, apierr.InvalidArgument("invalid json"))
		return
	}
	donorName := strings.TrimSpace(body.DonorName)
	receiptNo := strings.TrimSpace(body.ReceiptNo)
	if donorName == "" || receiptNo == "" {
		respondError(c, apierr.InvalidArgument("donorName and receiptNo are required"))
		return
	}
	if body.Amount <= 0 {
		respondError(c, apierr.InvalidArgument("amount must be a positive number"))
		return
	}
	donatedAt := time.Now().UTC()
	if strings.TrimSpace(body.DonatedAt) != "" {
		parsed, errDate := parseEventDate(body.DonatedAt)
		if errDate != nil {
			respondError(c, apierr.InvalidArgument("donatedAt must be RFC3339 or YYYY-MM-DD"))
			return
		}
		donatedAt = parsed
	}
	status := strings.TrimSpace(body.Status)
	if status == "" {
		status = "received"
	}

	row := models.Donation{
		DonorName:   donorName,
		Phone:       strings.TrimSpace(body.Phone),
		ReceiptNo:   receiptNo,
		Amount:      body.Amount,
		PaymentMode: strings.TrimSpace(body.PaymentMode),
		Status:      status,
		DonatedAt:   donatedAt,
		IsActive:    true,
		CreatedBy:   principal.ID,
	}
	if errCreate := h.db.WithContext(c.Request.Context()).Create(&row).Error; errCreate != nil {
		respondError(c, translateStoreError(errCreate, "donation with this receipt number already exists", "donation not found"))
		return
	}
	respondData(c, http.StatusCreated, "donation recorded", row)
}

// updateDonationRequest defines the request body for partial updates.
type updateDonationRequest struct {
	DonorName   *string `json:"donorName"`
	Phone       *string `json:"phone"`
	Amount      *int64  `json:"amount"`
	PaymentMode *string `json:"paymentMode"`
	Status      *string `json:"status"`
}

// Update applies a partial field merge and stamps the updater. The
// receipt number is immutable once recorded.
func (h *DonationHandler) Update(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	id, errParse := parseID(c)
	if errParse != nil {
		respondError(c, errParse)
		return
	}
	var body updateDonationRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		respondError(c, apierr.InvalidArgument("invalid json"))
		return
	}

	updates := map[string]any{
		"updated_at": time.Now().UTC(),
		"updated_by": principal.ID,
	}
	if body.DonorName != nil {
		donorName := strings.TrimSpace(*body.DonorName)
		if donorName == "" {
			respondError(c, apierr.InvalidArgument("donorName cannot be empty"))
			return
		}
		updates["donor_name"] = donorName
	}
	if body.Phone != nil {
		updates["phone"] = strings.TrimSpace(*body.Phone)
	}
	if body.Amount != nil {
		if *body.Amount <= 0 {
			respondError(c, apierr.InvalidArgument("amount must be a positive number"))
			return
		}
		updates["amount"] = *body.Amount
	}
	if body.PaymentMode != nil {
		updates["payment_mode"] = strings.TrimSpace(*body.PaymentMode)
	}
	if body.Status != nil {
		updates["status"] = strings.TrimSpace(*body.Status)
	}

	res := h.db.WithContext(c.Request.Context()).Model(&models.Donation{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		respondError(c, apierr.Internal(res.Error))
		return
	}
	if res.RowsAffected == 0 {
		respondError(c, apierr.NotFound("donation not found"))
		return
	}

	var row models.Donation
	if errFind := h.db.WithContext(c.Request.Context()).First(&row, id).Error; errFind != nil {
		respondError(c, translateStoreError(errFind, "", "donation not found"))
		return
	}
	respondData(c, http.StatusOK, "donation updated", row)
}

// Delete soft-deactivates a donation record. Financial entries are
// never hard-deleted.
func (h *DonationHandler) Delete(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	id, errParse := parseID(c)
	if errParse != nil {
		respondError(c, errParse)
		return
	}
	res := h.db.WithContext(c.Request.Context()).Model(&models.Donation{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"is_active":  false,
			"updated_at": time.Now().UTC(),
			"updated_by": principal.ID,
		})
	if res.Error != nil {
		respondError(c, apierr.Internal(res.Error))
		return
	}
	if res.RowsAffected == 0 {
		respondError(c, apierr.NotFound("donation not found"))
		return
	}
	respondData(c, http.StatusOK, "donation deactivated", nil)
}
