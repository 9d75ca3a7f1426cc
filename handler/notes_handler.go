package handler

import (
	"encoding/base64"
	"errors"

	"main/dto"
	"main/model"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
)

type NoteHandler struct {
	service *usecase.NoteService
}

func NewNoteHandler(service *usecase.NoteService) *NoteHandler {
	return &NoteHandler{service: service}
}

func (h *NoteHandler) GetNote(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}
	entryID := c.Param("entryId")

	note, err := h.service.GetNote(c.Request.Context(), entryID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			utils.NotFound(c, "No note for this entry")
			return
		}
		utils.InternalError(c, "Failed to fetch note")
		return
	}
	if note.UserID != userID.(string) {
		utils.NotFound(c, "No note for this entry")
		return
	}
	utils.Success(c, dto.ToNoteResponse(note))
}

// CreateNote attaches a note to a completion entry. Text notes carry their
// content inline; audio/video notes carry base64 media that lands in the
// media store before the row is written.
func (h *NoteHandler) CreateNote(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}
	entryID := c.Param("entryId")

	var req dto.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	var (
		note *model.Note
		err  error
	)
	if model.NoteType(req.Type) == model.NoteTypeText {
		note, err = h.service.CreateTextNote(c.Request.Context(), entryID, userID.(string), req.Content)
	} else {
		var data []byte
		data, err = base64.StdEncoding.DecodeString(req.MediaBase64)
		if err != nil {
			utils.BadRequest(c, "Invalid media encoding")
			return
		}
		ext := req.Ext
		if ext == "" {
			ext = "webm"
		}
		note, err = h.service.CreateMediaNote(c.Request.Context(), entryID, userID.(string),
			model.NoteType(req.Type), data, ext, req.DurationSec)
	}

	if err != nil {
		switch {
		case model.IsValidation(err):
			utils.BadRequest(c, err.Error())
		case errors.Is(err, model.ErrDuplicateEntry):
			utils.Conflict(c, "Entry already has a note")
		default:
			utils.InternalError(c, "Failed to create note")
		}
		return
	}
	utils.Created(c, dto.ToNoteResponse(note))
}

func (h *NoteHandler) DeleteNote(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}
	entryID := c.Param("entryId")

	if err := h.service.DeleteByEntry(c.Request.Context(), entryID, userID.(string)); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			utils.NotFound(c, "No note for this entry")
			return
		}
		utils.InternalError(c, "Failed to delete note")
		return
	}
	utils.Success(c, gin.H{"deleted": entryID})
}
