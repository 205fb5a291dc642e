package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/azhar-beg/backstage/internal/core"
	"github.com/azhar-beg/backstage/internal/object"
)

// respond encodes v through its JSON form into a Struct response.
func respond(v any) (*structResponse, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("encode response: %w", err))
	}
	msg := &structpb.Struct{}
	if err := protojson.Unmarshal(b, msg); err != nil {
		return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("encode response: %w", err))
	}
	return connect.NewResponse(msg), nil
}

// objectValue converts v into a protobuf Value node by node. Float
// NaN and infinities have no JSON form, so they are sent as their YAML
// spellings ".nan", ".inf" and "-.inf".
func objectValue(v object.Value) *structpb.Value {
	switch v.Kind() {
	case object.KindScalar:
		switch s := v.Scalar().(type) {
		case string:
			return structpb.NewStringValue(s)
		case bool:
			return structpb.NewBoolValue(s)
		case int64:
			return structpb.NewNumberValue(float64(s))
		case float64:
			switch {
			case math.IsNaN(s):
				return structpb.NewStringValue(".nan")
			case math.IsInf(s, 1):
				return structpb.NewStringValue(".inf")
			case math.IsInf(s, -1):
				return structpb.NewStringValue("-.inf")
			}
			return structpb.NewNumberValue(s)
		}
		return structpb.NewStringValue(v.String())
	case object.KindSequence:
		items := v.Items()
		list := &structpb.ListValue{Values: make([]*structpb.Value, 0, len(items))}
		for _, item := range items {
			list.Values = append(list.Values, objectValue(item))
		}
		return structpb.NewListValue(list)
	case object.KindMapping:
		fields := v.Fields()
		st := &structpb.Struct{Fields: make(map[string]*structpb.Value, len(fields))}
		for _, f := range fields {
			st.Fields[f.Key] = objectValue(f.Value)
		}
		return structpb.NewStructValue(st)
	default:
		return structpb.NewNullValue()
	}
}

func stringField(msg *structpb.Struct, key string) string {
	return msg.GetFields()[key].GetStringValue()
}

func boolField(msg *structpb.Struct, key string) bool {
	return msg.GetFields()[key].GetBoolValue()
}

// requestObject reads the object of a request. A "manifest" string is
// preferred because YAML and JSON text keep their key order; it must
// hold a single document. An "object" struct is accepted with its keys
// sorted.
func requestObject(msg *structpb.Struct) (object.Value, error) {
	fields := msg.GetFields()
	if manifest := fields["manifest"].GetStringValue(); manifest != "" {
		v, err := object.Parse([]byte(manifest))
		if err != nil {
			return object.Value{}, &core.ErrInvalidInput{Field: "manifest", Message: err.Error()}
		}
		return v, nil
	}
	if raw, ok := fields["object"]; ok {
		v, err := object.FromAny(raw.AsInterface())
		if err != nil {
			return object.Value{}, &core.ErrInvalidInput{Field: "object", Message: err.Error()}
		}
		return v, nil
	}
	return object.Value{}, &core.ErrInvalidInput{Field: "object", Message: "a manifest or an object is required"}
}

func drawerState(msg *structpb.Struct) (core.DrawerState, error) {
	state := msg.GetFields()["state"].GetStructValue()
	mode, err := core.ParseDisplayMode(stringField(state, "mode"))
	if err != nil {
		return core.DrawerState{}, err
	}
	return core.DrawerState{
		Open:          boolField(state, "open"),
		Mode:          mode,
		ManagedFields: boolField(state, "managedFields"),
	}, nil
}

func renderRequest(msg *structpb.Struct) (core.RenderRequest, error) {
	obj, err := requestObject(msg)
	if err != nil {
		return core.RenderRequest{}, err
	}
	state, err := drawerState(msg)
	if err != nil {
		return core.RenderRequest{}, err
	}
	return core.RenderRequest{
		Cluster: stringField(msg, "cluster"),
		Kind:    stringField(msg, "kind"),
		Object:  obj,
		State:   state,
	}, nil
}

func sessionID(msg *structpb.Struct) (string, error) {
	id := stringField(msg, "sessionId")
	if id == "" {
		return "", &core.ErrInvalidInput{Field: "sessionId", Message: "session id is required"}
	}
	return id, nil
}

// drawerAction reads "action", given either as the action type string
// or as a struct with "type", "mode" and "managedFields".
func drawerAction(msg *structpb.Struct) (core.DrawerAction, error) {
	raw, ok := msg.GetFields()["action"]
	if !ok {
		return core.DrawerAction{}, &core.ErrInvalidInput{Field: "action", Message: "action is required"}
	}
	if s, ok := raw.GetKind().(*structpb.Value_StringValue); ok {
		return core.DrawerAction{Type: core.DrawerActionType(s.StringValue)}, nil
	}

	action := raw.GetStructValue()
	if action == nil {
		return core.DrawerAction{}, &core.ErrInvalidInput{Field: "action", Message: "action must be a string or an object"}
	}
	return core.DrawerAction{
		Type:          core.DrawerActionType(stringField(action, "type")),
		Mode:          core.DisplayMode(stringField(action, "mode")),
		ManagedFields: boolField(action, "managedFields"),
	}, nil
}

// withIndex prefixes a batch entry error with its position.
func withIndex(err error, i int) error {
	var invalid *core.ErrInvalidInput
	if errors.As(err, &invalid) {
		return &core.ErrInvalidInput{Field: fmt.Sprintf("requests[%d].%s", i, invalid.Field), Message: invalid.Message}
	}
	return fmt.Errorf("requests[%d]: %w", i, err)
}
