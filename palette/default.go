package palette

func defaultEntries() []Entry {
	e := NewEntry
	g := NewGrayEntry
	return []Entry{
		// browns, woods, dirt
		e("dirt", RGB{134, 96, 67}, Natural),
		e("coarse_dirt", RGB{119, 85, 59}, Natural),
		e("packed_mud", RGB{140, 107, 86}, Natural),
		e("mud_bricks", RGB{138, 110, 89}, Textured),
		e("bricks", RGB{150, 97, 83}, Textured),
		e("granite", RGB{149, 103, 85}, Natural),
		e("polished_granite", RGB{154, 106, 89}, Smooth),
		e("terracotta", RGB{152, 94, 67}, Smooth),
		e("brown_terracotta", RGB{76, 50, 35}, Smooth),
		e("brown_concrete", RGB{96, 59, 31}, Smooth),
		e("brown_wool", RGB{114, 71, 40}, Textured),
		e("spruce_planks", RGB{114, 84, 56}, Textured),
		e("dark_oak_planks", RGB{66, 43, 20}, Textured),
		e("oak_planks", RGB{162, 130, 78}, Textured),
		e("jungle_planks", RGB{160, 115, 80}, Textured),
		e("nether_bricks", RGB{44, 21, 26}, Textured),

		// warm grays
		e("gray_terracotta", RGB{57, 41, 35}, Smooth),
		e("light_gray_terracotta", RGB{135, 107, 98}, Smooth),

		// greens, blues, teals
		e("prismarine", RGB{99, 156, 151}, Special),
		e("prismarine_bricks", RGB{99, 171, 162}, Special),
		e("dark_prismarine", RGB{51, 87, 82}, Special),
		e("warped_planks", RGB{43, 104, 99}, Textured),
		e("stripped_warped_hyphae", RGB{58, 142, 140}, Natural),
		e("oxidized_copper", RGB{86, 163, 147}, Special),
		e("weathered_copper", RGB{109, 160, 130}, Special),
		e("exposed_copper", RGB{161, 125, 103}, Special),
		e("mossy_cobblestone", RGB{108, 118, 92}, Natural),

		// gold, yellow
		e("gold_block", RGB{246, 208, 61}, Special),
		e("raw_gold_block", RGB{228, 178, 62}, Special),
		e("yellow_concrete", RGB{240, 175, 21}, Smooth),
		e("orange_concrete", RGB{224, 97, 0}, Smooth),

		// wools
		e("cyan_wool", RGB{21, 137, 145}, Textured),
		e("green_wool", RGB{84, 109, 27}, Textured),
		e("lime_wool", RGB{112, 185, 25}, Textured),
		e("blue_wool", RGB{53, 57, 157}, Textured),
		e("light_blue_wool", RGB{58, 175, 217}, Textured),
		e("red_wool", RGB{160, 39, 34}, Textured),

		// concretes
		e("cyan_concrete", RGB{21, 119, 136}, Smooth),
		e("green_concrete", RGB{73, 91, 36}, Smooth),
		e("lime_concrete", RGB{94, 169, 24}, Smooth),
		e("blue_concrete", RGB{44, 46, 143}, Smooth),
		e("light_blue_concrete", RGB{35, 137, 198}, Smooth),
		e("red_concrete", RGB{142, 32, 32}, Smooth),

		// terracottas
		e("cyan_terracotta", RGB{87, 92, 92}, Smooth),
		e("green_terracotta", RGB{76, 83, 42}, Smooth),
		e("lime_terracotta", RGB{103, 117, 53}, Smooth),
		e("light_blue_terracotta", RGB{113, 108, 137}, Smooth),
		e("red_terracotta", RGB{143, 61, 46}, Smooth),

		// neutrals
		g("white_concrete", RGB{207, 213, 214}, Smooth),
		g("gray_concrete", RGB{54, 57, 61}, Smooth),
		g("light_gray_concrete", RGB{125, 125, 115}, Smooth),
		g("black_concrete", RGB{8, 10, 15}, Smooth),
		g("stone", RGB{125, 125, 125}, Natural),
		g("cobblestone", RGB{100, 100, 100}, Textured),
		g("iron_block", RGB{220, 220, 220}, Special),
	}
}
