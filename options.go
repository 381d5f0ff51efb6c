package witsml

import (
	"sort"
	"strconv"
	"strings"
)

// ReturnElements controls which parts of an object a GetFromStore response
// includes.
type ReturnElements string

const (
	ReturnElementsAll                 ReturnElements = "all"
	ReturnElementsIDOnly              ReturnElements = "id-only"
	ReturnElementsHeaderOnly          ReturnElements = "header-only"
	ReturnElementsDataOnly            ReturnElements = "data-only"
	ReturnElementsStationLocationOnly ReturnElements = "station-location-only"
	ReturnElementsLatestChangeOnly    ReturnElements = "latest-change-only"
	ReturnElementsRequested           ReturnElements = "requested"
)

// OptionsIn keywords.
const (
	OptionReturnElements       = "returnElements"
	OptionMaxReturnNodes       = "maxReturnNodes"
	OptionDataVersion          = "dataVersion"
	OptionCascadedDelete       = "cascadedDelete"
	OptionCompressionMethod    = "compressionMethod"
	OptionRequestPrivateGroup  = "requestPrivateGroupOnly"
	OptionRequestLatestValues  = "requestLatestValues"
	OptionRequestObjectSelCap  = "requestObjectSelectionCapability"
	OptionInterval             = "intervalRangeInclusion"
	OptionRequestedIndexFormat = "requestedIndexFormat"
)

var optionValues = map[string]func(string) bool{
	OptionReturnElements: func(v string) bool {
		switch ReturnElements(v) {
		case ReturnElementsAll, ReturnElementsIDOnly, ReturnElementsHeaderOnly, ReturnElementsDataOnly,
			ReturnElementsStationLocationOnly, ReturnElementsLatestChangeOnly, ReturnElementsRequested:
			return true
		}
		return false
	},
	OptionMaxReturnNodes:      isPositiveInt,
	OptionRequestLatestValues: isPositiveInt,
	OptionDataVersion: func(v string) bool {
		_, err := ParseDataVersion(v)
		return err == nil
	},
	OptionCascadedDelete:       isBool,
	OptionRequestPrivateGroup:  isBool,
	OptionCompressionMethod:    oneOf("none"),
	OptionRequestObjectSelCap:  oneOf("none", "true"),
	OptionInterval:             oneOf("minimum-point", "whole-interval", "any-part"),
	OptionRequestedIndexFormat: oneOf("md", "time"),
}

func isPositiveInt(v string) bool {
	n, err := strconv.Atoi(v)
	return err == nil && n > 0
}

func isBool(v string) bool {
	_, err := strconv.ParseBool(v)
	return err == nil
}

func oneOf(values ...string) func(string) bool {
	return func(v string) bool {
		for _, s := range values {
			if v == s {
				return true
			}
		}
		return false
	}
}

// OptionsIn holds the parsed OptionsIn keyword/value pairs of a request.
type OptionsIn map[string]string

// ParseOptionsIn parses an OptionsIn string of the form
// "keyword=value;keyword=value". Unknown keywords and invalid values fail
// with ErrInvalidOptionsIn.
func ParseOptionsIn(s string) (OptionsIn, error) {
	opts := make(OptionsIn)
	for _, pair := range strings.Split(s, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 {
			return nil, NewErrInvalidOptionsIn(pair, "")
		}
		key, value := strings.TrimSpace(kv[0]), strings.TrimSpace(kv[1])
		valid, ok := optionValues[key]
		if !ok || !valid(value) {
			return nil, NewErrInvalidOptionsIn(key, value)
		}
		opts[key] = value
	}
	return opts, nil
}

// String formats the options in keyword order.
func (o OptionsIn) String() string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + o[k]
	}
	return strings.Join(parts, ";")
}

// ReturnElements returns the returnElements option, defaulting to requested.
func (o OptionsIn) ReturnElements() ReturnElements {
	if v, ok := o[OptionReturnElements]; ok {
		return ReturnElements(v)
	}
	return ReturnElementsRequested
}

// MaxReturnNodes returns the maxReturnNodes option, or 0 when absent.
func (o OptionsIn) MaxReturnNodes() int {
	n, _ := strconv.Atoi(o[OptionMaxReturnNodes])
	return n
}

// CascadedDelete reports whether cascadedDelete=true was requested.
func (o OptionsIn) CascadedDelete() bool {
	b, _ := strconv.ParseBool(o[OptionCascadedDelete])
	return b
}

// DataVersion returns the dataVersion option, if any.
func (o OptionsIn) DataVersion() (DataVersion, bool) {
	v, ok := o[OptionDataVersion]
	if !ok {
		return "", false
	}
	dv, err := ParseDataVersion(v)
	return dv, err == nil
}
