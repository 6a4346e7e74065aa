// Package diagnostics defines the error and warning vocabulary shared by
// every stage of the front-end. Codes are four-digit decimal strings and
// must remain stable: downstream consumers (LSP clients) match on them.
package diagnostics

// Code is a stable four-digit diagnostic code.
type Code string

// Lexical errors.
const (
	ErrUnexpectedToken            Code = "0001"
	ErrUnclosedCharLiteral        Code = "0002"
	ErrInvalidEscape              Code = "0003"
	ErrUnclosedCommentBlock       Code = "0004"
	ErrInvalidCharLiteral         Code = "0005"
	ErrUnclosedStringLiteral      Code = "0006"
	ErrInt8OutOfRange             Code = "0007"
	ErrInt16OutOfRange            Code = "0008"
	ErrInt32OutOfRange            Code = "0009"
	ErrInt64OutOfRange            Code = "0010"
	ErrUint8OutOfRange            Code = "0011"
	ErrUint16OutOfRange           Code = "0012"
	ErrUint32OutOfRange           Code = "0013"
	ErrUint64OutOfRange           Code = "0014"
	ErrIsizeOutOfRange            Code = "0015"
	ErrUsizeOutOfRange            Code = "0016"
	ErrInvalidLiteralSuffix       Code = "0017"
	ErrInvalidHexadecimalLiteral  Code = "0018"
	ErrInvalidOctalLiteral        Code = "0019"
	ErrInvalidBinLiteral          Code = "0020"
	ErrInvalidFloatLiteral        Code = "0021"
	ErrMismatchedClosingDelimiter Code = "0022"
	ErrUnexpectedCharacter        Code = "0023"
)

// Parse errors.
const (
	ErrExpectedImportValue              Code = "0024"
	ErrExpectedIdentifier               Code = "0025"
	ErrDuplicatePackageDeclaration      Code = "0026"
	ErrPackageNameAlreadyDefined        Code = "0027"
	ErrBadImportValue                   Code = "0028"
	ErrUnknownImportAtFlag              Code = "0029"
	ErrUnexpectedCharacterInImportValue Code = "0030"
	ErrNameConflict                     Code = "0031"
	ErrEOFNotExpected                   Code = "0032"
	ErrExpectedModuleIdentifier         Code = "0033"
	ErrExpectedFunIdentifier            Code = "0034"
	ErrExpectedToken                    Code = "0035"
	ErrUnexpectedTokenInFunctionBody    Code = "0036"
	ErrBadKindOfType                    Code = "0037"
	ErrImplIsAlreadyDefined             Code = "0038"
	ErrInheritIsAlreadyDefined          Code = "0039"
	ErrBadKindOfObject                  Code = "0040"
	ErrImplIsNotExpected                Code = "0041"
	ErrInheritIsNotExpected             Code = "0042"
	ErrExpectedDataType                 Code = "0043"
	ErrSetIsDuplicate                   Code = "0044"
	ErrGetIsDuplicate                   Code = "0045"
	ErrExpectedExpression               Code = "0046"
	ErrMissOneOrManyExpressions         Code = "0047"
	ErrMissOneOrManyIdentifiers         Code = "0048"
	ErrExpectedOneOrManyCharacters      Code = "0049"
	ErrFeatureNotYetSupported           Code = "0050"
	ErrExpectedAsmParam                 Code = "0051"
	ErrExpectedComptimeStringLiteral    Code = "0052"
	ErrExpectedOnlyOneExpression        Code = "0053"
	ErrVariableDeclarationIsNotExpected Code = "0054"
	ErrExpectedOnlyOnePattern           Code = "0055"
	ErrExpectedOnlyOneDataType          Code = "0056"
	ErrExpectedOnlyOneGenericParam      Code = "0057"
	ErrUnknownFromValueInLib            Code = "0058"
)

// Macro errors.
const (
	ErrMacroIsNotFound              Code = "0059"
	ErrMacroDoNothing               Code = "0060"
	ErrMacroExpandMissFewParams     Code = "0061"
	ErrMacroExpandHaveTooManyParams Code = "0062"
	ErrExpectedIdentifierDollar     Code = "0063"
	ErrUnknownMacroDataType         Code = "0064"
	ErrExpectedMacroDataType        Code = "0065"
	ErrMacroExpectedId              Code = "0066"
	ErrMacroExpectedDt              Code = "0067"
	ErrMacroExpectedTk              Code = "0068"
	ErrMacroExpectedTks             Code = "0069"
	ErrMacroExpectedStmt            Code = "0070"
	ErrMacroExpectedExpr            Code = "0071"
	ErrMacroExpectedPath            Code = "0072"
	ErrMacroExpectedPatt            Code = "0073"
	ErrMacroExpectedBlock           Code = "0074"
	ErrMacroDuplicateParam          Code = "0075"
	ErrMacroIdentifierNotFound      Code = "0076"
)

// Name-resolution errors.
const (
	ErrExpectedPattern             Code = "0077"
	ErrDuplicateConstant           Code = "0078"
	ErrDuplicateError              Code = "0079"
	ErrDuplicateFun                Code = "0080"
	ErrDuplicateModule             Code = "0081"
	ErrDuplicateClass              Code = "0082"
	ErrDuplicateEnumObject         Code = "0083"
	ErrDuplicateRecordObject       Code = "0084"
	ErrDuplicateTrait              Code = "0085"
	ErrDuplicateAlias              Code = "0086"
	ErrDuplicateEnum               Code = "0087"
	ErrDuplicateRecord             Code = "0088"
	ErrDuplicateParamName          Code = "0089"
	ErrDuplicateVariable           Code = "0090"
	ErrBreakIsNotExpectedInContext Code = "0091"
	ErrNextIsNotExpectedInContext  Code = "0092"
	ErrDataTypeDontMatch           Code = "0093"
	ErrPathNotExpectedAfterSysFlag Code = "0094"
	ErrIdentifierNotFound          Code = "0095"
	ErrValueHasBeenMoved           Code = "0096"
	ErrCannotUseAnyInSafeMode      Code = "0097"
	ErrCannotCastToAnyInSafeMode   Code = "0098"
	ErrBadLiteralCast              Code = "0099"
	ErrUnknownCast                 Code = "0100"
	ErrExpectedMainFunction        Code = "0101"
	ErrExpectedMutableVariable     Code = "0102"
	ErrExpectedBooleanExpression   Code = "0103"
	ErrFunctionIsNotFound          Code = "0104"
	ErrDuplicateField              Code = "0105"
	ErrUnknownType                 Code = "0106"
	ErrFieldIsNotFound             Code = "0107"
)

// Semantic errors.
const (
	ErrBadSysFunction                      Code = "0108"
	ErrImportSysRequired                   Code = "0109"
	ErrTooManyItemsInMacroExpand           Code = "0110"
	ErrDuplicateVariant                    Code = "0111"
	ErrImportBuiltinRequired               Code = "0112"
	ErrBadBuiltinFunction                  Code = "0113"
	ErrDataTypeNotFound                    Code = "0114"
	ErrExpectedDataTypeIsNotGuaranteed     Code = "0115"
	ErrCallNotExpectedInThisContext        Code = "0116"
	ErrNumberOfParamsMismatched            Code = "0117"
	ErrTooManyParams                       Code = "0118"
	ErrDefaultParamIsNotExpected           Code = "0119"
	ErrThereIsNoFieldInTrait               Code = "0120"
	ErrExpectedCustomDataType              Code = "0121"
	ErrExpectedObjectDeclAsParent          Code = "0122"
	ErrExpectedMethodAsParent              Code = "0123"
	ErrThisKindOfDataTypeIsNotExpected     Code = "0124"
	ErrMainFunctionIsNotCallable           Code = "0125"
	ErrImpossibleToGetReturnDataType       Code = "0126"
	ErrComptimeCastOverflow                Code = "0127"
	ErrThisDataTypeCannotBeDropped         Code = "0128"
	ErrValueHasBeenDropped                 Code = "0129"
	ErrThisKindOfValueIsNotAllowedToBeDrop Code = "0130"
	ErrThisKindOfExprIsNotAllowedToBeDrop  Code = "0131"
	ErrErrorDeclNotFound                   Code = "0132"
	ErrDataTypeDontMatchWithInferDataType  Code = "0133"
	ErrGenericParamsNotExpectedInMain      Code = "0134"
	ErrNoExplicitParamsExpectedInMain      Code = "0135"
	ErrOperatorCompilerDefinedParam        Code = "0136"
	ErrMainReturnDataTypeIsNotExpected     Code = "0137"
	ErrOperatorMustHaveReturnDataType      Code = "0138"
	ErrMainFunctionCannotBeRecursive       Code = "0139"
	ErrOperatorIsNotValid                  Code = "0140"
	ErrDuplicateOperator                   Code = "0141"
	ErrInfiniteDataType                    Code = "0142"
	ErrTuplesHaveNotSameSize               Code = "0143"
	ErrExpectedFunCall                     Code = "0144"
	ErrUnexpectedClose                     Code = "0145"
	ErrSelfImport                          Code = "0146"
	ErrRecursiveImport                     Code = "0147"
	ErrExpectedErrorDataType               Code = "0148"
	ErrUnexpectedCallExpr                  Code = "0149"
	ErrUnexpectedWildcard                  Code = "0150"
	ErrUnexpectedPath                      Code = "0151"
	ErrExpectedPath                        Code = "0152"
	ErrRestrictedCharacterOnIdentifierStr  Code = "0153"
)

// Warning codes live in their own namespace; they render as warning[NNNN].
const (
	WarnUnusedParen     Code = "0001"
	WarnUnusedSemicolon Code = "0002"
	WarnUnusedFunction  Code = "0003"
	WarnUnusedVariable  Code = "0004"
	WarnUnusedConstant  Code = "0005"
	WarnUnusedType      Code = "0006"
	WarnUnusedSwitchArm Code = "0007"
	WarnUnreachableCode Code = "0008"
)
