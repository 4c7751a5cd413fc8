package services

import (
	"fmt"

	"fdadmin/pkg/logger"

	"github.com/robfig/cron/v3"
)

// CampaignScheduler 活动与广告生命周期调度器
// 每分钟扫描一次：把开始时间已到的待开始活动置为进行中，
// 把结束时间已过的活动/广告置为已结束
type CampaignScheduler struct {
	cron             *cron.Cron
	promotionService *PromotionService
	adService        *AdvertisementService
	running          bool
}

// 全局调度器实例
var globalCampaignScheduler *CampaignScheduler

// SetGlobalCampaignScheduler 设置全局调度器实例
func SetGlobalCampaignScheduler(s *CampaignScheduler) {
	globalCampaignScheduler = s
}

// GetGlobalCampaignScheduler 获取全局调度器实例
func GetGlobalCampaignScheduler() *CampaignScheduler {
	return globalCampaignScheduler
}

// NewCampaignScheduler 创建调度器
func NewCampaignScheduler(promotionService *PromotionService, adService *AdvertisementService) *CampaignScheduler {
	return &CampaignScheduler{
		cron:             cron.New(),
		promotionService: promotionService,
		adService:        adService,
	}
}

// Start 启动调度器
func (s *CampaignScheduler) Start() error {
	if s.running {
		return fmt.Errorf("调度器已经在运行")
	}

	logger.GetLogger().Info("启动活动生命周期调度器")

	if _, err := s.cron.AddFunc("* * * * *", s.sweep); err != nil {
		return fmt.Errorf("注册调度任务失败: %v", err)
	}

	s.cron.Start()
	s.running = true

	return nil
}

// Stop 停止调度器
func (s *CampaignScheduler) Stop() {
	if !s.running {
		return
	}

	logger.GetLogger().Info("停止活动生命周期调度器")
	s.cron.Stop()
	s.running = false
}

// sweep 执行一轮状态迁移
func (s *CampaignScheduler) sweep() {
	log := logger.GetLogger()

	activated, err := s.promotionService.ActivateDue()
	if err != nil {
		log.Errorf("活动自动上线失败: %v", err)
	} else if activated > 0 {
		log.Infof("活动自动上线 %d 个", activated)
	}

	expired, err := s.promotionService.ExpireEnded()
	if err != nil {
		log.Errorf("活动自动过期失败: %v", err)
	} else if expired > 0 {
		log.Infof("活动自动过期 %d 个", expired)
	}

	adExpired, err := s.adService.ExpireEnded()
	if err != nil {
		log.Errorf("广告自动过期失败: %v", err)
	} else if adExpired > 0 {
		log.Infof("广告自动过期 %d 个", adExpired)
	}
}
