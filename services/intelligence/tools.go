package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"marketplace/models"
	"marketplace/services/booking"

	genai "github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
)

const (
	ToolListAvailableSlots = "list_available_slots"
	ToolCheckSlot          = "check_slot"
	ToolReserveBooking     = "reserve_booking"
)

func str(desc string) *genai.Schema { return &genai.Schema{Type: genai.TypeString, Description: desc} }
func num(desc string) *genai.Schema { return &genai.Schema{Type: genai.TypeNumber, Description: desc} }

func strList(desc string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Description: desc, Items: &genai.Schema{Type: genai.TypeString}}
}

// SchedulingTools declares the scheduling operations the model may call.
func SchedulingTools() *genai.Tool {
	return &genai.Tool{FunctionDeclarations: []*genai.FunctionDeclaration{
		{
			Name:        ToolListAvailableSlots,
			Description: "List providers with free one-hour-step slots between two dates, optionally near a location.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"from":          str("First day, YYYY-MM-DD"),
					"to":            str("Last day inclusive, YYYY-MM-DD"),
					"serviceId":     str("Service whose duration sizes the slots"),
					"subCategoryId": str("Only providers offering this sub-category"),
					"providerIds":   strList("Restrict to these providers"),
					"lat":           num("Customer latitude"),
					"lng":           num("Customer longitude"),
					"radiusKm":      num("Search radius in kilometres"),
				},
				Required: []string{"from", "to"},
			},
		},
		{
			Name:        ToolCheckSlot,
			Description: "Return which of the given providers are free at a date and time.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"providerIds": strList("Candidate providers"),
					"date":        str("YYYY-MM-DD"),
					"time":        str("HH:MM"),
					"serviceId":   str("Service to be booked"),
				},
				Required: []string{"providerIds", "date", "time"},
			},
		},
		{
			Name:        ToolReserveBooking,
			Description: "Reserve a provider for a service at a date and time on behalf of the current customer.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"providerId":   str("Provider to book"),
					"serviceId":    str("Service to book"),
					"date":         str("YYYY-MM-DD"),
					"time":         str("HH:MM"),
					"instructions": str("Notes for the provider"),
				},
				Required: []string{"providerId", "serviceId", "date", "time"},
			},
		},
	}}
}

// Caller is who the model is acting for during one chat turn.
type Caller struct {
	UserID string
	Lat    *float64
	Lng    *float64
}

// Dispatcher runs model function calls against the scheduling core.
type Dispatcher struct {
	Scheduling booking.SchedulingService
	Logger     *zap.Logger
}

func NewDispatcher(scheduling booking.SchedulingService, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{Scheduling: scheduling, Logger: logger}
}

// Dispatch never fails; errors are reported to the model as {"error": ...}.
func (d *Dispatcher) Dispatch(ctx context.Context, caller Caller, call genai.FunctionCall) map[string]any {
	result, err := d.run(ctx, caller, call)
	if err != nil {
		d.Logger.Info("tool call rejected", zap.String("tool", call.Name), zap.String("userID", caller.UserID), zap.Error(err))
		var conflict *booking.SlotConflictError
		if errors.As(err, &conflict) {
			return map[string]any{"error": conflict.Message()}
		}
		return map[string]any{"error": err.Error()}
	}
	out, err := toResponse(result)
	if err != nil {
		d.Logger.Error("tool result not encodable", zap.String("tool", call.Name), zap.Error(err))
		return map[string]any{"error": "internal error"}
	}
	return out
}

func (d *Dispatcher) run(ctx context.Context, caller Caller, call genai.FunctionCall) (any, error) {
	args := call.Args
	switch call.Name {
	case ToolListAvailableSlots:
		search := models.SlotSearch{
			ProviderIDs:   argStrings(args, "providerIds"),
			SubCategoryID: argString(args, "subCategoryId"),
			ServiceID:     argString(args, "serviceId"),
			DateFrom:      argString(args, "from"),
			DateTo:        argString(args, "to"),
			RadiusKm:      argFloat(args, "radiusKm"),
		}
		lat, hasLat := args["lat"].(float64)
		lng, hasLng := args["lng"].(float64)
		switch {
		case hasLat && hasLng:
			search.Lat, search.Lng = lat, lng
		case caller.Lat != nil && caller.Lng != nil:
			search.Lat, search.Lng = *caller.Lat, *caller.Lng
		default:
			search.RadiusKm = 0
		}
		providers, err := d.Scheduling.ListAvailableSlots(ctx, search)
		if err != nil {
			return nil, err
		}
		return map[string]any{"providers": providers}, nil

	case ToolCheckSlot:
		free, err := d.Scheduling.CheckSlotForProviders(ctx, models.SlotCheck{
			ProviderIDs: argStrings(args, "providerIds"),
			Date:        argString(args, "date"),
			Time:        argString(args, "time"),
			ServiceID:   argString(args, "serviceId"),
		})
		if err != nil {
			return nil, err
		}
		if free == nil {
			free = []string{}
		}
		return map[string]any{"availableProviders": free}, nil

	case ToolReserveBooking:
		if caller.UserID == "" {
			return nil, errors.New("sign in to make a reservation")
		}
		b, err := d.Scheduling.ReserveBooking(ctx, models.ReservationRequest{
			ProviderID:    argString(args, "providerId"),
			ServiceID:     argString(args, "serviceId"),
			Customer:      models.CustomerInfo{ID: caller.UserID},
			Instructions:  argString(args, "instructions"),
			ScheduledDate: argString(args, "date"),
			ScheduledTime: argString(args, "time"),
		})
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"bookingId": b.ID,
			"status":    b.Status,
			"date":      b.ScheduledDate,
			"time":      b.ScheduledTime,
			"duration":  b.Duration,
		}, nil
	}
	return nil, fmt.Errorf("unknown tool %q", call.Name)
}

// toResponse reduces v to the JSON-shaped values a FunctionResponse accepts.
func toResponse(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func argString(args map[string]any, key string) string {
	switch v := args[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return fmt.Sprint(v)
	}
	return ""
}

func argFloat(args map[string]any, key string) float64 {
	v, _ := args[key].(float64)
	return v
}

// argStrings accepts a list or a comma separated string.
func argStrings(args map[string]any, key string) []string {
	var out []string
	switch v := args[key].(type) {
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
	case string:
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
