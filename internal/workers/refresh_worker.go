package workers

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/models"
	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/services"
	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/utils"
)

// Publisher is the pub/sub half of the Redis client.
type Publisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

type RefreshWorkerPool struct {
	Redis      *redis.Client
	Publisher  Publisher
	Refresher  services.RefreshService
	NumWorkers int

	Logger *logrus.Logger

	Stream         string
	Group          string
	ConsumerPrefix string
}

type statusMessage struct {
	Type      string `json:"type"`
	OwnerKind string `json:"owner_kind"`
	OwnerID   string `json:"owner_id"`
	Status    string `json:"status"`
	Computed  bool   `json:"computed,omitempty"`
	Message   string `json:"message,omitempty"`
}

func (p *RefreshWorkerPool) Start(ctx context.Context) error {
	if p.Redis == nil || p.Refresher == nil {
		return errors.New("RefreshWorkerPool missing dependency: Redis/Refresher must be set")
	}
	if p.Publisher == nil {
		p.Publisher = p.Redis
	}
	if p.Stream == "" {
		p.Stream = services.RefreshStream
	}
	if p.Group == "" {
		p.Group = services.RefreshGroup
	}
	if p.ConsumerPrefix == "" {
		p.ConsumerPrefix = "c"
	}
	if p.NumWorkers <= 0 {
		p.NumWorkers = 4
	}
	if p.Logger == nil {
		p.Logger = logrus.New()
	}

	_ = p.Redis.XGroupCreateMkStream(ctx, p.Stream, p.Group, "0").Err() // ignore BUSYGROUP

	for i := 0; i < p.NumWorkers; i++ {
		consumer := p.ConsumerPrefix + "-" + strconv.Itoa(i+1)
		go p.runConsumer(ctx, consumer)
	}
	return nil
}

func (p *RefreshWorkerPool) runConsumer(ctx context.Context, consumer string) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res, err := p.Redis.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    p.Group,
			Consumer: consumer,
			Streams:  []string{p.Stream, ">"},
			Count:    10,
			Block:    5 * time.Second,
		}).Result()

		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			p.Logger.WithError(err).WithField("consumer", consumer).Warn("xreadgroup failed")
			time.Sleep(500 * time.Millisecond)
			continue
		}

		for _, stream := range res {
			for _, msg := range stream.Messages {
				p.handleMsg(ctx, msg)
				// on shutdown the ack fails and the message is redelivered; refresh is idempotent
				_ = p.Redis.XAck(ctx, p.Stream, p.Group, msg.ID).Err()
			}
		}
	}
}

func (p *RefreshWorkerPool) handleMsg(ctx context.Context, msg redis.XMessage) {
	getStr := func(k string) string {
		v, ok := msg.Values[k]
		if !ok || v == nil {
			return ""
		}
		s, _ := v.(string)
		return s
	}

	kind := models.EntityKind(getStr("owner_kind"))
	id := getStr("owner_id")
	if !kind.Valid() || id == "" {
		return
	}

	log := p.Logger.WithFields(logrus.Fields{
		"redis_id":   msg.ID,
		"owner_kind": kind,
		"owner_id":   id,
	})

	p.publish(ctx, kind, id, statusMessage{Status: models.RefreshProcessing})

	start := time.Now()
	res, err := p.Refresher.Refresh(ctx, kind, id)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		if utils.IsCode(err, utils.CodeNotFound) {
			log.Info("refresh skipped, entity no longer exists")
			p.publish(ctx, kind, id, statusMessage{Status: models.RefreshSkipped, Message: "not found"})
			return
		}
		log.WithError(err).WithField("latency_ms", latency).Error("embedding refresh failed")
		p.publish(ctx, kind, id, statusMessage{Status: models.RefreshFailed, Message: "embedding unavailable"})
		return
	}

	status := models.RefreshDone
	if res.Stale {
		status = models.RefreshFailed
	}
	log.WithFields(logrus.Fields{"latency_ms": latency, "computed": res.Computed, "stale": res.Stale}).Info("embedding refresh processed")
	p.publish(ctx, kind, id, statusMessage{Status: status, Computed: res.Computed})
}

func (p *RefreshWorkerPool) publish(ctx context.Context, kind models.EntityKind, id string, m statusMessage) {
	m.Type = "status"
	m.OwnerKind = string(kind)
	m.OwnerID = id
	payload, _ := json.Marshal(m)
	_ = p.Publisher.Publish(ctx, services.RefreshStatusChannel(kind, id), string(payload)).Err()
}
