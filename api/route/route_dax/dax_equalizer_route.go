package route_dax

import (
	"time"

	"github.com/Aurora-Nasa-1/101216MISoundBoost/api/controller/controller_dax"
	"github.com/Aurora-Nasa-1/101216MISoundBoost/bootstrap"
	"github.com/Aurora-Nasa-1/101216MISoundBoost/domain"
	"github.com/Aurora-Nasa-1/101216MISoundBoost/domain/domain_dax"
	"github.com/Aurora-Nasa-1/101216MISoundBoost/repository/repository_dax"
	"github.com/Aurora-Nasa-1/101216MISoundBoost/usecase/usecase_dax"
	"github.com/gin-gonic/gin"
)

// NewDaxEqualizerRouter 注册 /dax 路由并返回其使用的服务实例
func NewDaxEqualizerRouter(
	env *bootstrap.Env,
	timeout time.Duration,
	host domain.HostFileService,
	store domain.SnapshotStore,
	group *gin.RouterGroup,
) domain_dax.DaxEqualizerUsecase {
	documents := repository_dax.NewDaxDocumentRepository(host, env.DaxFilePath, env.DaxTempDir)
	backups := repository_dax.NewBackupSnapshotRepository(store, nil)

	uc := usecase_dax.NewDaxEqualizerUsecase(documents, backups, timeout, env.DaxBackupMirrorDir)
	ctrl := controller_dax.NewDaxEqualizerController(uc)

	daxGroup := group.Group("/dax")
	{
		daxGroup.GET("/state", ctrl.GetState)
		daxGroup.GET("/config", ctrl.GetConfig)
		daxGroup.GET("/presets", ctrl.GetPresetOptions)
		daxGroup.POST("/initialize", ctrl.Initialize)
		daxGroup.POST("/load", ctrl.Load)
		daxGroup.POST("/profile", ctrl.SelectProfile)
		daxGroup.POST("/preset", ctrl.SelectPreset)
		daxGroup.POST("/mode", ctrl.SwitchMode)
		daxGroup.POST("/eq-type", ctrl.SwitchEqType)
		daxGroup.POST("/band", ctrl.UpdateBand)
		daxGroup.POST("/apply-preset", ctrl.ApplyPreset)
		daxGroup.POST("/reset", ctrl.Reset)
		daxGroup.POST("/save", ctrl.Save)
		daxGroup.GET("/backups", ctrl.ListBackups)
		daxGroup.POST("/backups", ctrl.CreateBackup)
		daxGroup.POST("/backups/restore", ctrl.RestoreBackup)
		daxGroup.GET("/frequencies", ctrl.GetFrequencies)
		daxGroup.GET("/presets/builtin", ctrl.GetBuiltinPresets)
	}
	return uc
}
