package validate

// Issue codes. These are part of the wire contract; hosts match on them.
const (
	CodeRootType          = "ROOT_TYPE"
	CodeVersionRequired   = "VERSION_REQUIRED"
	CodeBodyType          = "BODY_TYPE"
	CodeElementShape      = "ELEMENT_SHAPE"
	CodeElementType       = "ELEMENT_TYPE_REQUIRED"
	CodeActionsType       = "ACTIONS_TYPE"
	CodeActionShape       = "ACTION_SHAPE"
	CodeActionType        = "ACTION_TYPE_REQUIRED"
	CodeActionIDDuplicate = "ACTION_ID_DUPLICATE"
	CodeInputIDRequired   = "INPUT_ID_REQUIRED"
	CodeInputIDDuplicate  = "INPUT_ID_DUPLICATE"
	CodeChoiceSetChoices  = "CHOICESET_CHOICES_REQUIRED"
	CodeChoiceShape       = "CHOICE_SHAPE"
	CodeOpenURLRequired   = "OPENURL_URL_REQUIRED"
	CodeSubmitDataType    = "SUBMIT_DATA_TYPE"
	CodeColumnSetColumns  = "COLUMNSET_COLUMNS_TYPE"
	CodeMediaSources      = "MEDIA_SOURCES_REQUIRED"
	CodeMediaSourceURL    = "MEDIA_SOURCE_URL_REQUIRED"
	CodeShowCardCard      = "SHOWCARD_CARD_TYPE"
	CodeFallbackShape     = "FALLBACK_SHAPE"
	CodeSelectAction      = "SELECT_ACTION_SHAPE"
	CodeBackgroundImage   = "BACKGROUND_IMAGE_SHAPE"
)
