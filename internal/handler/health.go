package handler

import (
	"context"
	"net/http"
	"time"

	"foodhouse/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health reports the liveness of the core's collaborators: Postgres (carts,
// orders, payments) and Redis (job queues). While Redis is reachable the
// response also carries the kitchen and receipt queue depths, so a stalled
// worker pool shows up as a growing backlog instead of silence.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "up"
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "down"
		}

		redisStatus := "up"
		queues := gin.H{}
		if rdb.Ping(ctx).Err() != nil {
			redisStatus = "down"
		} else {
			queues["kitchen"] = rdb.LLen(ctx, worker.QueueKitchen).Val()
			queues["receipt"] = rdb.LLen(ctx, worker.QueueReceipt).Val()
		}

		status := http.StatusOK
		if dbStatus != "up" || redisStatus != "up" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":     status == http.StatusOK,
			"db":     dbStatus,
			"redis":  redisStatus,
			"queues": queues,
		})
	}
}
