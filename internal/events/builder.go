package events

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	dateLayout = "02 Jan 2006"
	timeLayout = "3:04 PM"
)

// MissingArgumentError names the argument slot and payload field that a
// required extraction could not satisfy.
type MissingArgumentError struct {
	Slot  int
	Field string
}

func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("missing required field %q for argument %d", e.Field, e.Slot+1)
}

// InvariantError reports a built argument list whose length disagrees with
// the template's declared count. The mapping table is validated at startup so
// this can only be a bug in the builder itself.
type InvariantError struct {
	TemplateID string
	Got        int
	Want       int
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("internal: built %d args for template %q which declares %d",
		e.Got, e.TemplateID, e.Want)
}

// Build projects an event payload into the positional argument list the
// resolved template requires, applying each slot's formatting rule.
func Build(resolved Resolved, payload map[string]interface{}) ([]string, error) {
	rules := resolved.Mapping.Args
	args := make([]string, 0, len(rules))

	for i, rule := range rules {
		value, found := extract(payload, rule.Field)
		if !found {
			if rule.HasFallback {
				args = append(args, rule.Fallback)
				continue
			}
			return nil, &MissingArgumentError{Slot: i, Field: rule.Field}
		}

		rendered, err := render(value, rule.Format)
		if err != nil {
			return nil, fmt.Errorf("argument %d (%s): %w", i+1, rule.Field, err)
		}
		args = append(args, rendered)
	}

	if len(args) != resolved.Template.ArgCount {
		return nil, &InvariantError{
			TemplateID: resolved.Template.ID,
			Got:        len(args),
			Want:       resolved.Template.ArgCount,
		}
	}

	return args, nil
}

// BuildPreview renders the final message body with arguments substituted into
// the template's display text. Local only, never touches the network.
func BuildPreview(resolved Resolved, payload map[string]interface{}) (string, error) {
	args, err := Build(resolved, payload)
	if err != nil {
		return "", err
	}

	body := resolved.Template.Body
	for i, arg := range args {
		body = strings.ReplaceAll(body, fmt.Sprintf("{{%d}}", i+1), arg)
	}
	return body, nil
}

// extract walks a dotted field path through nested payload objects.
func extract(payload map[string]interface{}, path string) (interface{}, bool) {
	parts := strings.Split(path, ".")
	var current interface{} = payload

	for _, part := range parts {
		obj, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current, ok = obj[part]
		if !ok {
			return nil, false
		}
	}

	if current == nil {
		return nil, false
	}
	return current, true
}

func render(value interface{}, format Format) (string, error) {
	switch format {
	case FormatDate:
		t, err := toTime(value)
		if err != nil {
			return "", err
		}
		return t.Format(dateLayout), nil

	case FormatTime:
		t, err := toTime(value)
		if err != nil {
			return "", err
		}
		return t.Format(timeLayout), nil

	case FormatCurrency:
		n, err := toFloat(value)
		if err != nil {
			return "", err
		}
		return "₹" + strconv.FormatFloat(n, 'f', 2, 64), nil

	default:
		return stringify(value), nil
	}
}

func toTime(value interface{}) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case string:
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return time.Time{}, fmt.Errorf("cannot parse %q as RFC3339 timestamp", v)
		}
		return t, nil
	default:
		return time.Time{}, fmt.Errorf("cannot render %T as a timestamp", value)
	}
}

func toFloat(value interface{}) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot parse %q as an amount", v)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("cannot render %T as an amount", value)
	}
}

func stringify(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
