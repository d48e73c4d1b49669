// workers/maintenance.go
package workers

import (
	"log"
	"time"

	"kuberfashion-backend/config"
	"kuberfashion-backend/models"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// StartMaintenanceScheduler runs the periodic housekeeping jobs: cancelling
// orders whose payment never arrived and keeping category counters honest.
// Returns the scheduler so the caller can shut it down.
func StartMaintenanceScheduler(db *gorm.DB, cfg *config.Config) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	// Every 10 minutes: cancel stale unpaid orders.
	_, err = sched.NewJob(
		gocron.DurationJob(10*time.Minute),
		gocron.NewTask(func() {
			cutoff := time.Now().Add(-cfg.StaleOrderAfter)
			result := db.Model(&models.Order{}).
				Where("status = ? AND payment_status = ? AND created_at < ?",
					models.OrderStatusPending, models.PaymentStatusPending, cutoff).
				Updates(map[string]interface{}{
					"status":     models.OrderStatusCancelled,
					"updated_at": time.Now(),
				})
			if result.Error != nil {
				log.Printf("[Maintenance] Stale order sweep failed: %v", result.Error)
				return
			}
			if result.RowsAffected > 0 {
				log.Printf("🧹 Cancelled %d stale unpaid orders", result.RowsAffected)
			}
		}),
	)
	if err != nil {
		return nil, err
	}

	// Hourly: recompute category product counts from actual rows.
	_, err = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(func() {
			err := db.Exec(`UPDATE categories SET product_count = (
				SELECT COUNT(*) FROM products
				WHERE products.category_id = categories.id AND products.active = ?
			)`, true).Error
			if err != nil {
				log.Printf("[Maintenance] Category count refresh failed: %v", err)
			}
		}),
	)
	if err != nil {
		return nil, err
	}

	sched.Start()
	log.Println("🔁 Maintenance scheduler started")
	return sched, nil
}
