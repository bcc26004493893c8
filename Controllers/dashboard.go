package Controllers

import (
	"net/http"
	"time"

	"MediDesk/Models"

	"github.com/gin-gonic/gin"
)

type WardOccupancy struct {
	WardID   uint   `json:"ward_id"`
	WardName string `json:"ward_name"`
	Total    int    `json:"total"`
	Occupied int    `json:"occupied"`
}

// FetchDashboardStats returns the front-desk KPI card values.
func FetchDashboardStats(c *gin.Context) {
	db := getScopedDB(c)
	today := time.Now().Format("2006-01-02")

	var patientCount int64
	if err := db.Model(&Models.Patient{}).Count(&patientCount).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var opdToday int64
	if err := getScopedDB(c).Model(&Models.OPDRegistration{}).Where("visit_date = ?", today).Count(&opdToday).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var openAdmissions int64
	if err := getScopedDB(c).Model(&Models.IPDAdmission{}).Where("status = ?", Models.AdmissionOpen).Count(&openAdmissions).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var wards []Models.Ward
	if err := getScopedDB(c).Model(&Models.Ward{}).Preload("Beds").Find(&wards).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	occupancy := make([]WardOccupancy, 0, len(wards))
	totalBeds, occupiedBeds := 0, 0
	for _, ward := range wards {
		entry := WardOccupancy{WardID: ward.ID, WardName: ward.Name}
		for _, bed := range ward.Beds {
			entry.Total++
			if bed.Status == Models.BedOccupied {
				entry.Occupied++
			}
		}
		totalBeds += entry.Total
		occupiedBeds += entry.Occupied
		occupancy = append(occupancy, entry)
	}

	c.JSON(http.StatusOK, gin.H{
		"patients":        patientCount,
		"opd_today":       opdToday,
		"open_admissions": openAdmissions,
		"beds_total":      totalBeds,
		"beds_occupied":   occupiedBeds,
		"ward_occupancy":  occupancy,
	})
}

type RevenuePoint struct {
	Date  string  `json:"date"`
	OPD   float64 `json:"opd"`
	IPD   float64 `json:"ipd"`
	Total float64 `json:"total"`
}

// BuildRevenueSeries buckets paid OPD fees and IPD payments into one point
// per day of the requested range. Days with no revenue still appear so the
// chart axis stays continuous.
func BuildRevenueSeries(dateFrom, dateTo string, visits []Models.OPDRegistration, payments []Models.Payment) ([]RevenuePoint, error) {
	start, err := time.Parse("2006-01-02", dateFrom)
	if err != nil {
		return nil, err
	}
	end, err := time.Parse("2006-01-02", dateTo)
	if err != nil {
		return nil, err
	}

	days := int(end.Sub(start).Hours()/24) + 1
	series := make([]RevenuePoint, 0, days)
	buckets := make(map[string]*RevenuePoint, days)
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		series = append(series, RevenuePoint{Date: key})
		buckets[key] = &series[len(series)-1]
	}

	for _, visit := range visits {
		if !visit.IsPaid {
			continue
		}
		if point, ok := buckets[visit.VisitDate]; ok {
			point.OPD += visit.Fee
		}
	}

	for _, payment := range payments {
		key := payment.ReceivedAt.Format("2006-01-02")
		if point, ok := buckets[key]; ok {
			point.IPD += payment.Amount
		}
	}

	for index := range series {
		series[index].Total = series[index].OPD + series[index].IPD
	}

	return series, nil
}

func FetchRevenueSeries(c *gin.Context) {
	var input struct {
		DateFrom string `json:"date_from" binding:"required"`
		DateTo   string `json:"date_to" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hospitalID, ok := currentHospitalID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: Hospital Not Set"})
		return
	}

	var visits []Models.OPDRegistration
	if err := getScopedDB(c).Model(&Models.OPDRegistration{}).
		Where("visit_date BETWEEN ? AND ?", input.DateFrom, input.DateTo).
		Find(&visits).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var payments []Models.Payment
	if err := Models.DB.Model(&Models.Payment{}).
		Joins("JOIN ipd_admissions ON ipd_admissions.id = payments.ipd_admission_id").
		Where("ipd_admissions.hospital_id = ?", hospitalID).
		Where("payments.received_at BETWEEN ? AND ?", input.DateFrom, input.DateTo+" 23:59:59").
		Find(&payments).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	series, err := BuildRevenueSeries(input.DateFrom, input.DateTo, visits, payments)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, series)
}
