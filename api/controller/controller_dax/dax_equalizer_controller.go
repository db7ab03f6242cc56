package controller_dax

import (
	"errors"
	"net/http"

	"github.com/Aurora-Nasa-1/101216MISoundBoost/api/controller"
	"github.com/Aurora-Nasa-1/101216MISoundBoost/domain/domain_dax"
	"github.com/gin-gonic/gin"
)

type DaxEqualizerController struct {
	DaxUsecase domain_dax.DaxEqualizerUsecase
}

func NewDaxEqualizerController(uc domain_dax.DaxEqualizerUsecase) *DaxEqualizerController {
	return &DaxEqualizerController{DaxUsecase: uc}
}

func (ctrl *DaxEqualizerController) GetState(c *gin.Context) {
	controller.SuccessResponse(c, "state", ctrl.DaxUsecase.State(), 1)
}

func (ctrl *DaxEqualizerController) GetConfig(c *gin.Context) {
	model := ctrl.DaxUsecase.Model()
	if model == nil {
		controller.ErrorResponse(c, http.StatusConflict, "NOT_LOADED", "配置尚未加载")
		return
	}
	controller.SuccessResponse(c, "config", model, len(model.Presets))
}

func (ctrl *DaxEqualizerController) GetPresetOptions(c *gin.Context) {
	options := ctrl.DaxUsecase.PresetOptions()
	controller.SuccessResponse(c, "presets", options, len(options))
}

func (ctrl *DaxEqualizerController) Initialize(c *gin.Context) {
	state, err := ctrl.DaxUsecase.Initialize(c.Request.Context())
	ctrl.respondLoaded(c, state, err)
}

func (ctrl *DaxEqualizerController) Load(c *gin.Context) {
	state, err := ctrl.DaxUsecase.Load(c.Request.Context())
	ctrl.respondLoaded(c, state, err)
}

// respondLoaded treats a parse failure as a successful load of the defaults;
// the state carries the notice.
func (ctrl *DaxEqualizerController) respondLoaded(c *gin.Context, state domain_dax.EditState, err error) {
	if err != nil && !errors.Is(err, domain_dax.ErrParseFailure) {
		writeError(c, err)
		return
	}
	controller.SuccessResponse(c, "state", state, 1)
}

func (ctrl *DaxEqualizerController) SelectProfile(c *gin.Context) {
	var req struct {
		ID string `json:"id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.ErrorResponse(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	ctrl.respondEdit(c)(ctrl.DaxUsecase.SelectProfile(req.ID))
}

func (ctrl *DaxEqualizerController) SelectPreset(c *gin.Context) {
	var req struct {
		ID string `json:"id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.ErrorResponse(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	ctrl.respondEdit(c)(ctrl.DaxUsecase.SelectPreset(req.ID))
}

func (ctrl *DaxEqualizerController) SwitchMode(c *gin.Context) {
	var req struct {
		Mode domain_dax.EditMode `json:"mode" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.ErrorResponse(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	ctrl.respondEdit(c)(ctrl.DaxUsecase.SwitchMode(req.Mode))
}

func (ctrl *DaxEqualizerController) SwitchEqType(c *gin.Context) {
	var req struct {
		Type domain_dax.EqType `json:"type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.ErrorResponse(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	ctrl.respondEdit(c)(ctrl.DaxUsecase.SwitchEqType(req.Type))
}

func (ctrl *DaxEqualizerController) UpdateBand(c *gin.Context) {
	var req struct {
		Index *int              `json:"index" binding:"required"`
		Value *float64          `json:"value" binding:"required"`
		Field domain_dax.EqType `json:"field"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.ErrorResponse(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	// 默认编辑增益
	if req.Field == "" {
		req.Field = domain_dax.EqTypeGEQ
	}
	ctrl.respondEdit(c)(ctrl.DaxUsecase.UpdateBand(*req.Index, *req.Value, req.Field))
}

func (ctrl *DaxEqualizerController) ApplyPreset(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.ErrorResponse(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	ctrl.respondEdit(c)(ctrl.DaxUsecase.ApplyPreset(req.Name))
}

func (ctrl *DaxEqualizerController) Reset(c *gin.Context) {
	controller.SuccessResponse(c, "state", ctrl.DaxUsecase.Reset(), 1)
}

func (ctrl *DaxEqualizerController) respondEdit(c *gin.Context) func(domain_dax.EditState, error) {
	return func(state domain_dax.EditState, err error) {
		if err != nil {
			writeError(c, err)
			return
		}
		controller.SuccessResponse(c, "state", state, 1)
	}
}

func (ctrl *DaxEqualizerController) Save(c *gin.Context) {
	state, steps, err := ctrl.DaxUsecase.Save(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	controller.SuccessResponse(c, "save", gin.H{"state": state, "steps": steps}, len(steps))
}

func (ctrl *DaxEqualizerController) ListBackups(c *gin.Context) {
	backups, err := ctrl.DaxUsecase.ListBackups(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	controller.SuccessResponse(c, "backups", backups, len(backups))
}

func (ctrl *DaxEqualizerController) CreateBackup(c *gin.Context) {
	key, err := ctrl.DaxUsecase.Backup(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	controller.SuccessResponse(c, "backup", gin.H{"key": key}, 1)
}

func (ctrl *DaxEqualizerController) RestoreBackup(c *gin.Context) {
	var req struct {
		Key string `json:"key" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.ErrorResponse(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	state, steps, err := ctrl.DaxUsecase.Restore(c.Request.Context(), req.Key)
	if err != nil && !errors.Is(err, domain_dax.ErrParseFailure) {
		writeError(c, err)
		return
	}
	controller.SuccessResponse(c, "restore", gin.H{"state": state, "steps": steps}, len(steps))
}

func (ctrl *DaxEqualizerController) GetFrequencies(c *gin.Context) {
	mode := domain_dax.EditMode(c.DefaultQuery("mode", string(domain_dax.ModeSimple)))
	if !mode.Valid() {
		controller.ErrorResponse(c, http.StatusBadRequest, "INVALID_MODE", "mode 只能是 simple 或 advanced")
		return
	}

	frequencies := domain_dax.FramesFor(mode)
	labels := make([]string, len(frequencies))
	for i, f := range frequencies {
		labels[i] = domain_dax.FormatFrequency(f)
	}
	controller.SuccessResponse(c, "frequencies", gin.H{
		"mode":        mode,
		"frequencies": frequencies,
		"labels":      labels,
	}, len(frequencies))
}

func (ctrl *DaxEqualizerController) GetBuiltinPresets(c *gin.Context) {
	presets := domain_dax.BuiltinPresets()
	controller.SuccessResponse(c, "presets", presets, len(presets))
}

// writeError maps the error taxonomy onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, "SERVER_ERROR"
	switch {
	case errors.Is(err, domain_dax.ErrInvalidArgument):
		status, code = http.StatusBadRequest, "INVALID_ARGUMENT"
	case errors.Is(err, domain_dax.ErrNotFound):
		status, code = http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain_dax.ErrCorrupt):
		status, code = http.StatusUnprocessableEntity, "BACKUP_CORRUPT"
	case errors.Is(err, domain_dax.ErrSaveAmbiguous):
		status, code = http.StatusConflict, "SAVE_AMBIGUOUS"
	case errors.Is(err, domain_dax.ErrParseFailure):
		status, code = http.StatusUnprocessableEntity, "PARSE_FAILURE"
	case errors.Is(err, domain_dax.ErrIoFailure):
		status, code = http.StatusBadGateway, "IO_FAILURE"
	}

	message := err.Error()
	var opErr *domain_dax.OperationError
	if errors.As(err, &opErr) && opErr.Detail != "" {
		message = opErr.Label + ": " + opErr.Detail
	}
	controller.ErrorResponse(c, status, code, message)
}
