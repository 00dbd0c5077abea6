package handler

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// toValue は JSON タグに従って値を structpb 互換の汎用値へ変換します。
func toValue(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func newResponse(fields map[string]any) (*structpb.Struct, error) {
	converted := make(map[string]any, len(fields))
	for key, value := range fields {
		switch value.(type) {
		case nil, bool, string, int, int64, float64:
			converted[key] = value
		default:
			v, err := toValue(value)
			if err != nil {
				return nil, status.Error(codes.Internal, fmt.Sprintf("encode %s: %v", key, err))
			}
			converted[key] = v
		}
	}
	resp, err := structpb.NewStruct(converted)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return resp, nil
}

// decodeField は req の field を out へ JSON として読み込みます。field が無い場合は何もしません。
func decodeField(req *structpb.Struct, field string, out any) error {
	value, ok := req.GetFields()[field]
	if !ok {
		return nil
	}
	raw, err := json.Marshal(value.AsInterface())
	if err != nil {
		return status.Error(codes.InvalidArgument, fmt.Sprintf("%s: %v", field, err))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return status.Error(codes.InvalidArgument, fmt.Sprintf("%s: %v", field, err))
	}
	return nil
}

func stringField(req *structpb.Struct, field string) string {
	return req.GetFields()[field].GetStringValue()
}
