package keywords

import "github.com/jotbook-dev/jotbook/internal/model"

// Default returns the built-in keyword table.
//
// Keywords mix Traditional Chinese and English because chat logs in the
// wild do. Single characters like 吃 are deliberate: they are common
// enough in event text to be reliable, and the rule order resolves
// overlaps (飯店 must reach travel, so food avoids the bare 飯).
func Default() *Table {
	rules := []Rule{
		{Category: model.CategoryFood, Keywords: []string{
			"吃", "喝", "早餐", "午餐", "晚餐", "宵夜", "聚餐", "咖啡",
			"餐廳", "飲料", "火鍋", "燒肉", "甜點",
			"breakfast", "lunch", "dinner", "coffee", "restaurant", "food",
		}},
		{Category: model.CategoryTransport, Keywords: []string{
			"捷運", "公車", "高鐵", "台鐵", "火車", "計程車", "加油",
			"停車", "機票", "車票",
			"uber", "taxi", "mrt", "bus", "train", "flight", "parking",
		}},
		{Category: model.CategoryShopping, Keywords: []string{
			"買", "網購", "蝦皮", "衣服", "鞋子", "百貨",
			"shopping", "momo", "amazon", "mall",
		}},
		{Category: model.CategoryEntertainment, Keywords: []string{
			"電影", "唱歌", "遊戲", "演唱會", "展覽", "桌遊",
			"ktv", "movie", "game", "concert", "netflix", "karaoke",
		}},
		{Category: model.CategoryHealth, Keywords: []string{
			"醫院", "診所", "藥局", "牙醫", "掛號", "健檢", "看病",
			"doctor", "clinic", "pharmacy", "dental", "hospital",
		}},
		{Category: model.CategoryEducation, Keywords: []string{
			"上課", "補習", "學費", "課程", "講座", "考試", "教科書",
			"class", "course", "tuition", "lesson", "exam", "textbook",
		}},
		{Category: model.CategoryTravel, Keywords: []string{
			"旅行", "旅遊", "出差", "住宿", "飯店", "民宿", "機場",
			"trip", "travel", "hotel", "hostel", "airbnb", "airport",
		}},
	}

	markers := []string{
		"元", "塊", "块", "錢", "付了", "花了", "費用", "消費", "支出",
		"nt$", "$", "paid", "cost", "spent",
	}

	return NewTable(rules, markers)
}
