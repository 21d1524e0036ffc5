package charset

// GSM 03.38 default alphabet plus the character set extension table.
const (
	gsmBasic = "@£$¥èéùìòÇ\nØø\rÅåΔ_ΦΓΛΩΠΨΣΘΞ\x1bÆæßÉ !\"#¤%&'()*+,-./0123456789:;<=>?" +
		"¡ABCDEFGHIJKLMNOPQRSTUVWXYZÄÖÑÜ§¿abcdefghijklmnopqrstuvwxyzäöñüà"
	gsmExtension = "^{}\\[~]|€"
)

// Scripts kept verbatim for SMS even though they fall outside GSM 03.38.
const (
	welshNonGSM    = "ÂâÊêÎîÔôÛûŴŵŶŷ"
	frenchNonGSM   = "ÀÂËÎÏÔŒÙÛâçêëîïôœû"
	inuktitutChars = "ᐁᐯᑌᑫᕴᒉᒣᓀᓭᓓᔦᑦᔦᕓᕂᙯᖅᑫᙰᐃᐱᑎᑭᕵᒋᒥᓂᓯ𑪶𑪰ᓕᔨᑦᔨᖨᕕᕆᕿᖅᑭᖏᙱᖠᐄᐲᑏᑮᕶᒌᒦᓃᓰ𑪷𑪱ᓖᔩᑦᔩᖩᕖᕇᖀᖅᑮᖐᙲᖡᐅᐳᑐᑯᕷᒍᒧᓄᓱ𑪸𑪲ᓗᔪᑦᔪᖪᕗᕈᖁᖅᑯᖑᙳᖢᐊᐸᑕᑲᕹᒐᒪᓇᓴ𑪺𑪴ᓚᔭᑦᔭᖬᕙᕋᖃᖅᑲᖓᙵᖤᑉᑦᒃᕻᒡᒻᓐᔅᓪᔾᑦᔾᖮᕝᕐᖅᖅᒃᖕᖖᖦᖯᕼᑊ"
	creeChars      = "ᐊᐁᐃᐅᐸᐯᐱᐳᑕᑌᑎᑐᑲᑫᑭᑯᒐᒉᒋᒍᒪᒣᒥᒧᓇᓀᓂᓄᓴᓭᓯᓱᔭᔦᔨᔪ"
	ojibweChars    = "ᐁᐃᐅᐊᐄᐆᐋᐊᐊᐞᐊᐊᐊᐦᐊᐊᐊᐊᐦᐊᐊᐞᐊᐯᐱᐳᐸᐲᐴᐹᐊᑉᐊᣔᑌᑎᑐᑕᑏᑑᑖᐊᑦᐊᣕᑫᑭᑯᑲᑮᑰᑳᐊᒃᐊᣖᒉᒋᒍᒐᒌᒎᒑᐊᒡᐊᣗᒣᒥᒧᒪᒦᒨᒫᐊᒻᐊᣘᐊᒻᐊᐊᣘᐊᓀᓂᓄᓇᓃᓅᓈᐊᓐᐊᣙᐊᓐᐊᐊᣙᐊᓭᓯᓱᓴᓰᓲᓵᐊᔅᐊᣚᐊᔅᐊᐊᣚᐊᔐᔑᔓᔕᔒᔔᔖᐊᔥᐊᣛᐊᔥᐊᐊᣛᐊᔦᔨᔪᔭᔩᔫᔮᐊᔾᐊᐤᐊᐃᐧᐁᐧᐃᐧᐅᐧᐊᐧᐄᐧᐆᐧᐋᐊᐤᐊᐤᐊᣜᐦᐁᐦᐃᐦᐅᐦᐊᐦᐄᐦᐆᐦᐋᐊᐦᐊᐦᐊᐦᐊᐊᐦᐊ"
)

// Printable ASCII, characters 32 through 126 inclusive.
const asciiPrintable = " !\"#$%&'()*+,-./0123456789:;<=>?@ABCDEFGHIJKLMNOPQRSTUVWXYZ[\\]^_`abcdefghijklmnopqrstuvwxyz{|}~"
