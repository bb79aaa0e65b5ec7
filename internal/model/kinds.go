package model

import "fmt"

// SectionKind is the symbolic type of a section directory entry
type SectionKind int

const (
	SectionUndefined SectionKind = iota // Tag not in the table
	SectionNone
	SectionCopyright
	SectionGuid
	SectionAirport
	SectionVorIls
	SectionNdb
	SectionMarker
	SectionBoundary
	SectionWaypoint
	SectionGeopol
	SectionSceneryObject
	SectionNameList
	SectionVorIlsIcaoIndex
	SectionNdbIcaoIndex
	SectionWaypointIcaoIndex
	SectionModelData
	SectionAirportSummary
	SectionExclusion
	SectionTimeZone
	SectionLandmark
	SectionTerrainVectorDb
	SectionTerrainElevation
	SectionTerrainLandClass
	SectionTerrainWaterClass
	SectionTerrainRegion
	SectionPopulationDensity
	SectionAutogenAnnotation
	SectionTerrainIndex
	SectionTerrainTextureLookup
	SectionTerrainSeason
	SectionTerrainPhoto
)

var sectionTags = map[uint32]SectionKind{
	0x00: SectionNone,
	0x01: SectionCopyright,
	0x02: SectionGuid,
	0x03: SectionAirport,
	0x13: SectionVorIls,
	0x17: SectionNdb,
	0x18: SectionMarker,
	0x20: SectionBoundary,
	0x22: SectionWaypoint,
	0x23: SectionGeopol,
	0x25: SectionSceneryObject,
	0x27: SectionNameList,
	0x28: SectionVorIlsIcaoIndex,
	0x29: SectionNdbIcaoIndex,
	0x2A: SectionWaypointIcaoIndex,
	0x2B: SectionModelData,
	0x2C: SectionAirportSummary,
	0x2D: SectionExclusion,
	0x2E: SectionTimeZone,
	0x30: SectionLandmark,
	0x65: SectionTerrainVectorDb,
	0x66: SectionTerrainElevation,
	0x67: SectionTerrainLandClass,
	0x68: SectionTerrainWaterClass,
	0x69: SectionTerrainRegion,
	0x6A: SectionPopulationDensity,
	0x6B: SectionAutogenAnnotation,
	0x6C: SectionTerrainIndex,
	0x6D: SectionTerrainTextureLookup,
}

// Seasonal terrain and photo sections use one tag per month
const (
	tagSeasonFirst = 0x6E
	tagSeasonLast  = 0x79
	tagPhotoFirst  = 0x7A
	tagPhotoLast   = 0x86
)

var sectionNames = map[SectionKind]string{
	SectionUndefined:            "Undefined",
	SectionNone:                 "None",
	SectionCopyright:            "Copyright",
	SectionGuid:                 "Guid",
	SectionAirport:              "Airport",
	SectionVorIls:               "VorIls",
	SectionNdb:                  "Ndb",
	SectionMarker:               "Marker",
	SectionBoundary:             "Boundary",
	SectionWaypoint:             "Waypoint",
	SectionGeopol:               "Geopol",
	SectionSceneryObject:        "SceneryObject",
	SectionNameList:             "NameList",
	SectionVorIlsIcaoIndex:      "VorIlsIcaoIndex",
	SectionNdbIcaoIndex:         "NdbIcaoIndex",
	SectionWaypointIcaoIndex:    "WaypointIcaoIndex",
	SectionModelData:            "ModelData",
	SectionAirportSummary:       "AirportSummary",
	SectionExclusion:            "Exclusion",
	SectionTimeZone:             "TimeZone",
	SectionLandmark:             "Landmark",
	SectionTerrainVectorDb:      "TerrainVectorDb",
	SectionTerrainElevation:     "TerrainElevation",
	SectionTerrainLandClass:     "TerrainLandClass",
	SectionTerrainWaterClass:    "TerrainWaterClass",
	SectionTerrainRegion:        "TerrainRegion",
	SectionPopulationDensity:    "PopulationDensity",
	SectionAutogenAnnotation:    "AutogenAnnotation",
	SectionTerrainIndex:         "TerrainIndex",
	SectionTerrainTextureLookup: "TerrainTextureLookup",
	SectionTerrainSeason:        "TerrainSeason",
	SectionTerrainPhoto:         "TerrainPhoto",
}

// SectionKindOf maps an on-disk section tag to its kind. Unknown tags
// map to SectionUndefined.
func SectionKindOf(tag uint32) SectionKind {
	if k, ok := sectionTags[tag]; ok {
		return k
	}
	switch {
	case tag >= tagSeasonFirst && tag <= tagSeasonLast:
		return SectionTerrainSeason
	case tag >= tagPhotoFirst && tag <= tagPhotoLast:
		return SectionTerrainPhoto
	}
	return SectionUndefined
}

func (k SectionKind) String() string {
	if name, ok := sectionNames[k]; ok {
		return name
	}
	return fmt.Sprintf("SectionKind(%d)", int(k))
}

// DataKind is the symbolic type of a record inside section data
type DataKind int

const (
	DataUndefined DataKind = iota
	DataRunway
	DataRunwayPrimaryOffsetThreshold
	DataRunwaySecondaryOffsetThreshold
	DataRunwayPrimaryBlastPad
	DataRunwaySecondaryBlastPad
	DataRunwayPrimaryOverrun
	DataRunwaySecondaryOverrun
	DataRunwayPrimaryLeftVasi
	DataRunwayPrimaryRightVasi
	DataRunwaySecondaryLeftVasi
	DataRunwaySecondaryRightVasi
	DataRunwayPrimaryApproachLights
	DataRunwaySecondaryApproachLights
	DataStart
	DataCom
	DataVorIls
	DataLocalizer
	DataGlideslope
	DataDme
	DataNdb
	DataMarker
	DataName
	DataTaxiwayPoint
	DataTaxiwayPath
	DataTaxiName
	DataWaypoint
	DataRoute
	DataApproach
	DataHelipad
	DataTransition
	DataApproachLegs
	DataMissedApproachLegs
	DataTransitionLegs
	DataApronEdgeLights
	DataDeleteAirport
	DataApron
	DataJetway
	DataAirport
	DataTaxiwayParking
	DataDeleteNav
	DataAirportMsfs
)

var dataTags = map[uint32]DataKind{
	0x0004: DataRunway,
	0x0005: DataRunwayPrimaryOffsetThreshold,
	0x0006: DataRunwaySecondaryOffsetThreshold,
	0x0007: DataRunwayPrimaryBlastPad,
	0x0008: DataRunwaySecondaryBlastPad,
	0x0009: DataRunwayPrimaryOverrun,
	0x000A: DataRunwaySecondaryOverrun,
	0x000B: DataRunwayPrimaryLeftVasi,
	0x000C: DataRunwayPrimaryRightVasi,
	0x000D: DataRunwaySecondaryLeftVasi,
	0x000E: DataRunwaySecondaryRightVasi,
	0x000F: DataRunwayPrimaryApproachLights,
	0x0010: DataRunwaySecondaryApproachLights,
	0x0011: DataStart,
	0x0012: DataCom,
	0x0013: DataVorIls,
	0x0014: DataLocalizer,
	0x0015: DataGlideslope,
	0x0016: DataDme,
	0x0017: DataNdb,
	0x0018: DataMarker,
	0x0019: DataName,
	0x001A: DataTaxiwayPoint,
	0x001C: DataTaxiwayPath,
	0x001D: DataTaxiName,
	0x0022: DataWaypoint,
	0x0023: DataRoute,
	0x0024: DataApproach,
	0x0026: DataHelipad,
	0x002C: DataTransition,
	0x002D: DataApproachLegs,
	0x002E: DataMissedApproachLegs,
	0x002F: DataTransitionLegs,
	0x0030: DataApronEdgeLights,
	0x0033: DataDeleteAirport,
	0x0037: DataApron,
	0x003A: DataJetway,
	0x003C: DataAirport,
	0x003D: DataTaxiwayParking,
	0x0043: DataDeleteNav,
	0x0056: DataAirportMsfs,
}

var dataNames = map[DataKind]string{
	DataUndefined:                      "Undefined",
	DataRunway:                         "Runway",
	DataRunwayPrimaryOffsetThreshold:   "RunwayPrimaryOffsetThreshold",
	DataRunwaySecondaryOffsetThreshold: "RunwaySecondaryOffsetThreshold",
	DataRunwayPrimaryBlastPad:          "RunwayPrimaryBlastPad",
	DataRunwaySecondaryBlastPad:        "RunwaySecondaryBlastPad",
	DataRunwayPrimaryOverrun:           "RunwayPrimaryOverrun",
	DataRunwaySecondaryOverrun:         "RunwaySecondaryOverrun",
	DataRunwayPrimaryLeftVasi:          "RunwayPrimaryLeftVasi",
	DataRunwayPrimaryRightVasi:         "RunwayPrimaryRightVasi",
	DataRunwaySecondaryLeftVasi:        "RunwaySecondaryLeftVasi",
	DataRunwaySecondaryRightVasi:       "RunwaySecondaryRightVasi",
	DataRunwayPrimaryApproachLights:    "RunwayPrimaryApproachLights",
	DataRunwaySecondaryApproachLights:  "RunwaySecondaryApproachLights",
	DataStart:                          "Start",
	DataCom:                            "Com",
	DataVorIls:                         "VorIls",
	DataLocalizer:                      "Localizer",
	DataGlideslope:                     "Glideslope",
	DataDme:                            "Dme",
	DataNdb:                            "Ndb",
	DataMarker:                         "Marker",
	DataName:                           "Name",
	DataTaxiwayPoint:                   "TaxiwayPoint",
	DataTaxiwayPath:                    "TaxiwayPath",
	DataTaxiName:                       "TaxiName",
	DataWaypoint:                       "Waypoint",
	DataRoute:                          "Route",
	DataApproach:                       "Approach",
	DataHelipad:                        "Helipad",
	DataTransition:                     "Transition",
	DataApproachLegs:                   "ApproachLegs",
	DataMissedApproachLegs:             "MissedApproachLegs",
	DataTransitionLegs:                 "TransitionLegs",
	DataApronEdgeLights:                "ApronEdgeLights",
	DataDeleteAirport:                  "DeleteAirport",
	DataApron:                          "Apron",
	DataJetway:                         "Jetway",
	DataAirport:                        "Airport",
	DataTaxiwayParking:                 "TaxiwayParking",
	DataDeleteNav:                      "DeleteNav",
	DataAirportMsfs:                    "AirportMsfs",
}

// DataKindOf maps an on-disk record tag to its kind. Unknown tags map
// to DataUndefined.
func DataKindOf(tag uint32) DataKind {
	if k, ok := dataTags[tag]; ok {
		return k
	}
	return DataUndefined
}

func (k DataKind) String() string {
	if name, ok := dataNames[k]; ok {
		return name
	}
	return fmt.Sprintf("DataKind(%d)", int(k))
}
