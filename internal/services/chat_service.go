package services

import (
	"context"
	"fmt"
	"strings"

	"guanago/internal/domain"
	"guanago/internal/domain/models"
	"guanago/internal/groq"
	"guanago/internal/utils"
)

const (
	chatHistory    = 12
	chatMaxChars   = 2000
	chatMaxTokens  = 600
	chatContextCap = 15
)

const conciergePrompt = `Eres GuanaBot, el concierge virtual de GuanaGO en San Andrés Isla, Colombia.
Responde en el idioma del usuario, de forma breve y amable.
Recomienda tours, traslados, alojamientos y experiencias culturales raizales (incluido RIMM, la música local).
Los precios están en pesos colombianos (COP). No inventes precios ni disponibilidad: si no los conoces, invita a pedir una cotización.
Recuerda que la tarjeta de turismo de San Andrés se paga aparte al llegar.`

// ChatService is the Groq-backed concierge.
type ChatService struct {
	LLM     Completer
	Catalog *CatalogService
	Model   string
}

func (s ChatService) Reply(ctx context.Context, history []models.ChatMessage) (models.ChatReply, error) {
	msgs, err := trimHistory(history)
	if err != nil {
		return models.ChatReply{}, err
	}

	system := conciergePrompt
	if extra := s.catalogContext(ctx); extra != "" {
		system += "\n\nServicios disponibles:\n" + extra
	}
	req := groq.ChatRequest{
		Model:       s.Model,
		Temperature: 0.6,
		MaxTokens:   chatMaxTokens,
		Messages:    make([]groq.Message, 0, len(msgs)+1),
	}
	req.Messages = append(req.Messages, groq.Message{Role: "system", Content: system})
	for _, m := range msgs {
		req.Messages = append(req.Messages, groq.Message{Role: m.Role, Content: m.Content})
	}

	res, err := s.LLM.Complete(ctx, req)
	if err != nil {
		return models.ChatReply{}, err
	}
	if res.Content == "" {
		return models.ChatReply{}, domain.UpstreamError{Service: "groq", Msg: "respuesta vacía"}
	}
	utils.LogEvent(utils.RequestIDFrom(ctx), "chat", "reply",
		fmt.Sprintf("messages=%d prompt_tokens=%d completion_tokens=%d", len(msgs), res.PromptTokens, res.CompletionTokens))
	return models.ChatReply{
		Reply:            res.Content,
		Model:            res.Model,
		PromptTokens:     res.PromptTokens,
		CompletionTokens: res.CompletionTokens,
	}, nil
}

// trimHistory keeps the last messages and requires the conversation to end on a user turn.
func trimHistory(history []models.ChatMessage) ([]models.ChatMessage, error) {
	if len(history) == 0 {
		return nil, domain.ValidationError{Field: "messages", Msg: "requerido"}
	}
	if len(history) > chatHistory {
		history = history[len(history)-chatHistory:]
	}
	out := make([]models.ChatMessage, 0, len(history))
	for i, m := range history {
		role := strings.ToLower(strings.TrimSpace(m.Role))
		if role != "user" && role != "assistant" {
			return nil, domain.ValidationError{Field: fmt.Sprintf("messages[%d].role", i), Msg: "debe ser user o assistant"}
		}
		content := strings.TrimSpace(m.Content)
		if content == "" {
			return nil, domain.ValidationError{Field: fmt.Sprintf("messages[%d].content", i), Msg: "requerido"}
		}
		if r := []rune(content); len(r) > chatMaxChars {
			content = string(r[:chatMaxChars])
		}
		out = append(out, models.ChatMessage{Role: role, Content: content})
	}
	if out[len(out)-1].Role != "user" {
		return nil, domain.ValidationError{Field: "messages", Msg: "el último mensaje debe ser del usuario"}
	}
	return out, nil
}

func (s ChatService) catalogContext(ctx context.Context) string {
	if s.Catalog == nil || s.Catalog.Cache == nil {
		return ""
	}
	list, _, err := s.Catalog.ListServices(ctx, models.ServiceFilter{ActiveOnly: true})
	if err != nil {
		return ""
	}
	var b strings.Builder
	for i, svc := range list {
		if i == chatContextCap {
			break
		}
		fmt.Fprintf(&b, "- %s (%s): %s\n", svc.Name, svc.Category, utils.FormatCOP(svc.Price))
	}
	return b.String()
}
