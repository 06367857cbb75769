package savefile

// mapSchema описывает документ, который создаёт world.Map.Serialize
const mapSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["version", "width", "height", "tile_size", "tiers"],
  "properties": {
    "version": {"type": "integer", "minimum": 1},
    "id": {"type": "string"},
    "width": {"type": "integer", "minimum": 1, "maximum": 4096},
    "height": {"type": "integer", "minimum": 1, "maximum": 4096},
    "tile_size": {"type": "integer", "minimum": 1, "maximum": 256},
    "tiers": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["name", "layers"],
        "properties": {
          "name": {"type": "string"},
          "layers": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["name", "tiles"],
              "properties": {
                "name": {"type": "string"},
                "tiles": {
                  "type": "array",
                  "items": {
                    "type": "object",
                    "required": ["x", "y", "material", "mask", "health"],
                    "properties": {
                      "x": {"type": "integer", "minimum": 0},
                      "y": {"type": "integer", "minimum": 0},
                      "material": {"type": "string"},
                      "mask": {"type": "integer", "minimum": 0, "maximum": 15},
                      "health": {"type": "number"},
                      "walkable": {"type": "boolean"},
                      "superwalkable": {"type": "boolean"},
                      "immortal": {"type": "boolean"},
                      "fringe": {"type": "boolean"}
                    }
                  }
                }
              }
            }
          }
        }
      }
    }
  }
}`
