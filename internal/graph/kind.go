package graph

// Kind is the closed set of content types the flattener understands.
// Content types outside this set are leaves.
type Kind uint8

const (
	KindLeaf Kind = iota
	KindDeliveryChannel
	KindModule
	KindRegulatedModule
	KindContentSet
	KindRegulatedContentSet
	KindContentImage
	KindRegulatedContentImage
	KindScreen
	KindRegulatedScreen
)

// Content type identifiers as configured in the content backend.
const (
	TypeDeliveryChannel       = "deliveryChannelMobileApplication"
	TypeModule                = "module"
	TypeRegulatedModule       = "regulatedModule"
	TypeContentSet            = "contentSet"
	TypeRegulatedContentSet   = "regulatedContentSet"
	TypeContentImage          = "contentImage"
	TypeRegulatedContentImage = "regulatedContentImage"
	TypeScreen                = "screenFlexible"
	TypeRegulatedScreen       = "regulatedScreenFlexible"
)

var kindByType = map[string]Kind{
	TypeDeliveryChannel:       KindDeliveryChannel,
	TypeModule:                KindModule,
	TypeRegulatedModule:       KindRegulatedModule,
	TypeContentSet:            KindContentSet,
	TypeRegulatedContentSet:   KindRegulatedContentSet,
	TypeContentImage:          KindContentImage,
	TypeRegulatedContentImage: KindRegulatedContentImage,
	TypeScreen:                KindScreen,
	TypeRegulatedScreen:       KindRegulatedScreen,
}

// KindOf classifies a content type identifier.
func KindOf(contentType string) Kind {
	if k, ok := kindByType[contentType]; ok {
		return k
	}
	return KindLeaf
}

func (k Kind) String() string {
	switch k {
	case KindLeaf:
		return "leaf"
	case KindDeliveryChannel:
		return TypeDeliveryChannel
	case KindModule:
		return TypeModule
	case KindRegulatedModule:
		return TypeRegulatedModule
	case KindContentSet:
		return TypeContentSet
	case KindRegulatedContentSet:
		return TypeRegulatedContentSet
	case KindContentImage:
		return TypeContentImage
	case KindRegulatedContentImage:
		return TypeRegulatedContentImage
	case KindScreen:
		return TypeScreen
	case KindRegulatedScreen:
		return TypeRegulatedScreen
	default:
		return "unknown"
	}
}

// Variant separates regulated content from unregulated content.
type Variant uint8

const (
	Unregulated Variant = iota
	Regulated
)

func (v Variant) String() string {
	if v == Regulated {
		return "regulated"
	}
	return "unregulated"
}

// ModuleKind returns the module kind of variant v.
func ModuleKind(v Variant) Kind {
	if v == Regulated {
		return KindRegulatedModule
	}
	return KindModule
}

// ScreenKind returns the screen kind of variant v.
func ScreenKind(v Variant) Kind {
	if v == Regulated {
		return KindRegulatedScreen
	}
	return KindScreen
}

// ContentSetKind returns the content set kind of variant v.
func ContentSetKind(v Variant) Kind {
	if v == Regulated {
		return KindRegulatedContentSet
	}
	return KindContentSet
}
