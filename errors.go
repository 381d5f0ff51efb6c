package witsml

import (
	"fmt"

	"github.com/Sjoshi-TYCS/witsml/errors"
)

const (
	ErrMissingPluralRootElement               errors.Code = "MissingPluralRootElement"
	ErrInvalidOptionsIn                       errors.Code = "InvalidOptionsIn"
	ErrDataObjectUidAlreadyExists             errors.Code = "DataObjectUidAlreadyExists"
	ErrMissingElementUidForAdd                errors.Code = "MissingElementUidForAdd"
	ErrMissingWmlTypeIn                       errors.Code = "MissingWmlTypeIn"
	ErrMissingInputTemplate                   errors.Code = "MissingInputTemplate"
	ErrInputTemplateNonConforming             errors.Code = "InputTemplateNonConforming"
	ErrDataObjectTypeNotSupported             errors.Code = "DataObjectTypeNotSupported"
	ErrMissingDataObjectUid                   errors.Code = "MissingDataObjectUid"
	ErrNotAllowedToDeleteParentWithChildren   errors.Code = "NotAllowedToDeleteParentWithChildren"
	ErrDataObjectNotExist                     errors.Code = "DataObjectNotExist"
	ErrInputTemplateMultipleDataObjects       errors.Code = "InputTemplateMultipleDataObjects"
	ErrMissingElementUidForUpdate             errors.Code = "MissingElementUidForUpdate"
	ErrIndexCurveNotFound                     errors.Code = "IndexCurveNotFound"
	ErrDuplicateMnemonics                     errors.Code = "DuplicateMnemonics"
	ErrMissingRequiredData                    errors.Code = "MissingRequiredData"
	ErrExceededMaxDataNodes                   errors.Code = "ExceededMaxDataNodes"
	ErrExceededMaxDataPoints                  errors.Code = "ExceededMaxDataPoints"
	ErrMissingElementUidForDelete             errors.Code = "MissingElementUidForDelete"
	ErrChildUidNotUnique                      errors.Code = "ChildUidNotUnique"
	ErrMissingDataSchemaVersion               errors.Code = "MissingDataSchemaVersion"
	ErrInsufficientOperationRights            errors.Code = "InsufficientOperationRights"
	ErrMissingParentUid                       errors.Code = "MissingParentUid"
	ErrMissingParentDataObject                errors.Code = "MissingParentDataObject"
	ErrUpdateObjectGrowingNotAllowed          errors.Code = "UpdateObjectGrowingNotAllowed"
	ErrInvalidReturnElementsForDataObjectType errors.Code = "InvalidReturnElementsForDataObjectType"
	ErrUnknown                                errors.Code = "UnknownError"
)

// ErrorCode is the numeric WITSML result code returned to clients. Success
// is positive, every failure is negative.
type ErrorCode int

const (
	ErrorCodeSuccess                                ErrorCode = 1
	ErrorCodeMissingPluralRootElement               ErrorCode = -401
	ErrorCodeInvalidOptionsIn                       ErrorCode = -402
	ErrorCodeDataObjectUidAlreadyExists             ErrorCode = -405
	ErrorCodeMissingElementUidForAdd                ErrorCode = -406
	ErrorCodeMissingWmlTypeIn                       ErrorCode = -407
	ErrorCodeMissingInputTemplate                   ErrorCode = -408
	ErrorCodeInputTemplateNonConforming             ErrorCode = -409
	ErrorCodeDataObjectTypeNotSupported             ErrorCode = -413
	ErrorCodeMissingDataObjectUid                   ErrorCode = -415
	ErrorCodeNotAllowedToDeleteParentWithChildren   ErrorCode = -432
	ErrorCodeDataObjectNotExist                     ErrorCode = -433
	ErrorCodeInputTemplateMultipleDataObjects       ErrorCode = -444
	ErrorCodeMissingElementUidForUpdate             ErrorCode = -448
	ErrorCodeIndexCurveNotFound                     ErrorCode = -450
	ErrorCodeDuplicateMnemonics                     ErrorCode = -451
	ErrorCodeMissingRequiredData                    ErrorCode = -453
	ErrorCodeExceededMaxDataNodes                   ErrorCode = -458
	ErrorCodeExceededMaxDataPoints                  ErrorCode = -459
	ErrorCodeMissingElementUidForDelete             ErrorCode = -463
	ErrorCodeChildUidNotUnique                      ErrorCode = -464
	ErrorCodeMissingDataSchemaVersion               ErrorCode = -468
	ErrorCodeInsufficientOperationRights            ErrorCode = -471
	ErrorCodeMissingParentUid                       ErrorCode = -477
	ErrorCodeMissingParentDataObject                ErrorCode = -478
	ErrorCodeUpdateObjectGrowingNotAllowed          ErrorCode = -480
	ErrorCodeInvalidReturnElementsForDataObjectType ErrorCode = -482
	ErrorCodeUnknown                                ErrorCode = -999
)

type errorCodeInfo struct {
	value   ErrorCode
	message string
}

var errorCodeTable = map[errors.Code]errorCodeInfo{
	ErrMissingPluralRootElement:               {ErrorCodeMissingPluralRootElement, "The input template must contain a plural root element."},
	ErrInvalidOptionsIn:                       {ErrorCodeInvalidOptionsIn, "An OptionsIn keyword or value was not recognized."},
	ErrDataObjectUidAlreadyExists:             {ErrorCodeDataObjectUidAlreadyExists, "A data object with the same unique identifier already exists."},
	ErrMissingElementUidForAdd:                {ErrorCodeMissingElementUidForAdd, "A recurring element being added is missing its uid."},
	ErrMissingWmlTypeIn:                       {ErrorCodeMissingWmlTypeIn, "The WMLtypeIn parameter must be specified."},
	ErrMissingInputTemplate:                   {ErrorCodeMissingInputTemplate, "The input template must be specified."},
	ErrInputTemplateNonConforming:             {ErrorCodeInputTemplateNonConforming, "The input template does not conform to the data object schema."},
	ErrDataObjectTypeNotSupported:             {ErrorCodeDataObjectTypeNotSupported, "The data object type is not supported by the server for this function."},
	ErrMissingDataObjectUid:                   {ErrorCodeMissingDataObjectUid, "The data object must specify its unique identifier."},
	ErrNotAllowedToDeleteParentWithChildren:   {ErrorCodeNotAllowedToDeleteParentWithChildren, "A data object with child data objects cannot be deleted."},
	ErrDataObjectNotExist:                     {ErrorCodeDataObjectNotExist, "The data object does not exist in the store."},
	ErrInputTemplateMultipleDataObjects:       {ErrorCodeInputTemplateMultipleDataObjects, "The input template contains more than one data object."},
	ErrMissingElementUidForUpdate:             {ErrorCodeMissingElementUidForUpdate, "A recurring element being updated is missing its uid."},
	ErrIndexCurveNotFound:                     {ErrorCodeIndexCurveNotFound, "The index curve is not defined in the log curve list."},
	ErrDuplicateMnemonics:                     {ErrorCodeDuplicateMnemonics, "Mnemonics must be unique within a log."},
	ErrMissingRequiredData:                    {ErrorCodeMissingRequiredData, "A mandatory element or attribute is missing."},
	ErrExceededMaxDataNodes:                   {ErrorCodeExceededMaxDataNodes, "The request exceeds the maximum number of data nodes."},
	ErrExceededMaxDataPoints:                  {ErrorCodeExceededMaxDataPoints, "The request exceeds the maximum number of data points."},
	ErrMissingElementUidForDelete:             {ErrorCodeMissingElementUidForDelete, "A recurring element being deleted is missing its uid."},
	ErrChildUidNotUnique:                      {ErrorCodeChildUidNotUnique, "The uids of recurring elements must be unique."},
	ErrMissingDataSchemaVersion:               {ErrorCodeMissingDataSchemaVersion, "The data schema version is missing or not supported."},
	ErrInsufficientOperationRights:            {ErrorCodeInsufficientOperationRights, "The user does not have rights to perform this operation."},
	ErrMissingParentUid:                       {ErrorCodeMissingParentUid, "The parent uid of the data object must be specified."},
	ErrMissingParentDataObject:                {ErrorCodeMissingParentDataObject, "The parent data object does not exist."},
	ErrUpdateObjectGrowingNotAllowed:          {ErrorCodeUpdateObjectGrowingNotAllowed, "objectGrowing cannot be changed while the object is growing."},
	ErrInvalidReturnElementsForDataObjectType: {ErrorCodeInvalidReturnElementsForDataObjectType, "The returnElements value is not valid for this data object type."},
	ErrUnknown:                                {ErrorCodeUnknown, "An unknown error occurred."},
}

var errorCodeNames = func() map[ErrorCode]errors.Code {
	m := make(map[ErrorCode]errors.Code, len(errorCodeTable))
	for code, info := range errorCodeTable {
		m[info.value] = code
	}
	return m
}()

// Code returns the coded error name for c.
func (c ErrorCode) Code() errors.Code {
	if c == ErrorCodeSuccess {
		return "Success"
	}
	if code, ok := errorCodeNames[c]; ok {
		return code
	}
	return ErrUnknown
}

func (c ErrorCode) String() string { return string(c.Code()) }

// IsSuccess reports whether c denotes success.
func (c ErrorCode) IsSuccess() bool { return c > 0 }

// Message returns the base message for c, as returned by GetBaseMsg. Unknown
// values return an empty string.
func (c ErrorCode) Message() string {
	if c == ErrorCodeSuccess {
		return "Function completed successfully."
	}
	code, ok := errorCodeNames[c]
	if !ok {
		return ""
	}
	return errorCodeTable[code].message
}

// ErrorCodeOf maps err to exactly one result code. A nil error is success and
// any error without a WITSML code is ErrorCodeUnknown.
func ErrorCodeOf(err error) ErrorCode {
	if err == nil {
		return ErrorCodeSuccess
	}
	code, ok := errors.CodeOf(err)
	if !ok {
		return ErrorCodeUnknown
	}
	if info, ok := errorCodeTable[code]; ok {
		return info.value
	}
	return ErrorCodeUnknown
}

// NewError returns a coded error for code with a formatted message.
func NewError(code errors.Code, format string, args ...interface{}) error {
	return errors.New(code, fmt.Sprintf(format, args...))
}

// The following are helper functions for constructing coded errors containing
// relevant information about the specific error.

func NewErrDataObjectNotExist(typ ObjectType, id ObjectID) error {
	return errors.New(
		ErrDataObjectNotExist,
		fmt.Sprintf("%s '%s' does not exist", typ, id),
	)
}

func NewErrDataObjectUidAlreadyExists(typ ObjectType, id ObjectID) error {
	return errors.New(
		ErrDataObjectUidAlreadyExists,
		fmt.Sprintf("%s '%s' already exists", typ, id),
	)
}

func NewErrMissingParentDataObject(typ ObjectType, id ObjectID) error {
	return errors.New(
		ErrMissingParentDataObject,
		fmt.Sprintf("parent %s '%s' does not exist", typ, id),
	)
}

func NewErrMissingElementUidForUpdate(element string) error {
	return errors.New(
		ErrMissingElementUidForUpdate,
		fmt.Sprintf("%s is missing its uid", element),
	)
}

func NewErrChildUidNotUnique(element, uid string) error {
	return errors.New(
		ErrChildUidNotUnique,
		fmt.Sprintf("%s uid '%s' is not unique", element, uid),
	)
}

func NewErrDataObjectTypeNotSupported(typ string, version DataVersion) error {
	return errors.New(
		ErrDataObjectTypeNotSupported,
		fmt.Sprintf("data object type '%s' is not supported in version %s", typ, version),
	)
}

func NewErrDataVersionNotSupported(version string) error {
	return errors.New(
		ErrMissingDataSchemaVersion,
		fmt.Sprintf("data schema version '%s' is not supported", version),
	)
}

func NewErrInvalidOptionsIn(keyword, value string) error {
	return errors.New(
		ErrInvalidOptionsIn,
		fmt.Sprintf("invalid OptionsIn value '%s' for keyword '%s'", value, keyword),
	)
}

func NewErrInsufficientOperationRights(user string, fn Function, endpoint EndpointType) error {
	return errors.New(
		ErrInsufficientOperationRights,
		fmt.Sprintf("user '%s' may not call %s on the %s endpoint", user, fn, endpoint),
	)
}
