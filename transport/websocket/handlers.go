package websocket

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/markboard-backend/internal/apperror"
	"github.com/rocketscienceinc/markboard-backend/internal/render"
	"github.com/rocketscienceinc/markboard-backend/internal/repository"
)

const (
	actionConnect      = "connect"
	actionBoardMark    = "board:mark"
	actionBoardState   = "board:state"
	actionSessionLeave = "session:leave"
)

func (that *Server) handleConnect(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	log := that.logger.With("method", "handleConnect")

	var payloadReq Payload

	// connect may come with no payload at all, that is a first contact
	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
			return fmt.Errorf("failed to unmarshal payload: %w", err)
		}
	}

	var sessionID string
	if payloadReq.Session != nil {
		sessionID = payloadReq.Session.ID
	}

	session, err := that.boardUseCase.GetOrCreateSession(ctx, sessionID)
	if err != nil {
		log.Error("failed to get or create session", "error", err)
		return that.sendErrorResponse(bufrw, msg.Action, "failed to get or create session")
	}

	payloadResp := Payload{
		Session: session,
		Cells:   render.Cells(session.Board),
	}

	if err = that.sendMessage(bufrw, msg.Action, payloadResp); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	log.Info("session connected", "session", session.ID)

	return nil
}

func (that *Server) handleBoardMark(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	log := that.logger.With("method", "handleBoardMark")

	var payloadReq Payload

	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payloadReq.Session == nil || payloadReq.Session.ID == "" {
		log.Error("session is missing in payload")
		return that.sendErrorResponse(bufrw, msg.Action, "session is required")
	}

	if payloadReq.Cell == nil {
		log.Error("cell is missing in payload")
		return that.sendErrorResponse(bufrw, msg.Action, "cell is required")
	}

	log = log.With("session", payloadReq.Session.ID)

	session, err := that.boardUseCase.MarkCell(ctx, payloadReq.Session.ID, *payloadReq.Cell)

	if errors.Is(err, apperror.ErrCellOutOfRange) {
		return that.sendErrorResponse(bufrw, msg.Action, fmt.Sprintf("cell %d is out of range", *payloadReq.Cell))
	}

	if errors.Is(err, repository.ErrSessionNotFound) {
		return that.sendErrorResponse(bufrw, msg.Action, "session doesn't exist")
	}

	if err != nil {
		log.Error("failed to mark cell", "error", err)
		return that.sendErrorResponse(bufrw, msg.Action, "failed to mark cell")
	}

	payloadResp := Payload{
		Session: session,
		Cells:   render.Cells(session.Board),
	}

	if err = that.sendMessage(bufrw, msg.Action, payloadResp); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	log.Info("cell marked", "cell", *payloadReq.Cell)

	return nil
}

func (that *Server) handleBoardState(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	log := that.logger.With("method", "handleBoardState")

	var payloadReq Payload

	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payloadReq.Session == nil || payloadReq.Session.ID == "" {
		log.Error("session is missing in payload")
		return that.sendErrorResponse(bufrw, msg.Action, "session is required")
	}

	session, err := that.boardUseCase.GetSession(ctx, payloadReq.Session.ID)
	if errors.Is(err, repository.ErrSessionNotFound) {
		return that.sendErrorResponse(bufrw, msg.Action, "session doesn't exist")
	}

	if err != nil {
		log.Error("failed to get session", "error", err)
		return that.sendErrorResponse(bufrw, msg.Action, "failed to get session")
	}

	payloadResp := Payload{
		Session: session,
		Cells:   render.Cells(session.Board),
	}

	if err = that.sendMessage(bufrw, msg.Action, payloadResp); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	return nil
}

func (that *Server) handleSessionLeave(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	log := that.logger.With("method", "handleSessionLeave")

	var payloadReq Payload

	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payloadReq.Session == nil || payloadReq.Session.ID == "" {
		log.Error("session is missing in payload")
		return that.sendErrorResponse(bufrw, msg.Action, "session is required")
	}

	log = log.With("session", payloadReq.Session.ID)

	err := that.boardUseCase.EndSession(ctx, payloadReq.Session.ID)
	if errors.Is(err, repository.ErrSessionNotFound) {
		return that.sendErrorResponse(bufrw, msg.Action, "session doesn't exist")
	}

	if err != nil {
		log.Error("failed to end session", "error", err)
		return that.sendErrorResponse(bufrw, msg.Action, "failed to end session")
	}

	if err = that.sendMessage(bufrw, msg.Action, Payload{}); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	log.Info("session left")

	return nil
}
